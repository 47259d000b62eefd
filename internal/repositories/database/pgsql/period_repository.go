package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/finbooks/ledger_core/internal/models"
	"github.com/finbooks/ledger_core/internal/utils/mapping"
	"github.com/finbooks/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, code, start_date, end_date, status, locked_at, locked_by, lock_reason,
	closing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Code,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.LockedAt,
		&m.LockedBy,
		&m.LockReason,
		&m.ClosingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)

	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PeriodID,
		m.Code,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.LockedAt,
		m.LockedBy,
		m.LockReason,
		m.ClosingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translatePgError(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return fmt.Errorf("period code %s already exists: %w", m.Code, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save period %s: %w", m.PeriodID, err)
	}
	return nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`
	m, err := scanPeriod(r.pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxPeriodRepository) FindPeriodByCode(ctx context.Context, code string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE code = $1;`
	m, err := scanPeriod(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by code %s: %w", code, err)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY start_date
		LIMIT 1;
	`
	m, err := scanPeriod(r.pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period for date %s: %w", date.Format("2006-01-02"), err)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxPeriodRepository) FindOverlappingPeriod(ctx context.Context, start, end time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date
		LIMIT 1;
	`
	m, err := scanPeriod(r.pool.QueryRow(ctx, query, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, limit int, nextToken *string) ([]domain.AccountingPeriod, *string, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		tokDate, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += ` WHERE start_date < $1`
		args = append(args, tokDate)
	}
	query += fmt.Sprintf(` ORDER BY start_date DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var ms []models.AccountingPeriod
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating period rows: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		token := pagination.EncodeDateBasedToken(ms[limit-1].StartDate)
		next = &token
	}
	periods := make([]domain.AccountingPeriod, len(ms))
	for i, m := range ms {
		periods[i] = mapping.ToDomainPeriod(m)
	}
	return periods, next, nil
}

// UpdatePeriodStatus transitions the period and records the audit event in one
// transaction so a close or reopen is never half-visible. The period row is
// locked FOR UPDATE first: postings hold it FOR SHARE, so the transition waits
// for in-flight postings and the service-layer checks are re-validated under
// the lock.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod, audit domain.AuditEvent) error {
	m := mapping.ToModelPeriod(period)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var currentStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM accounting_periods WHERE period_id = $1 FOR UPDATE;`, m.PeriodID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock period %s: %w", m.PeriodID, translatePgError(err))
	}
	// Only OPEN<->CLOSED transitions exist; the row must still be on the side
	// the caller observed.
	expected := string(domain.PeriodClosed)
	if m.Status == string(domain.PeriodClosed) {
		expected = string(domain.PeriodOpen)
	}
	if currentStatus != expected {
		return fmt.Errorf("period %s has status %s: %w", m.PeriodID, currentStatus, apperrors.ErrConflict)
	}

	if m.Status == string(domain.PeriodClosed) {
		// A draft created after the service counted would otherwise survive
		// inside the closed window.
		var drafts int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM journal_entries
			WHERE status = 'DRAFT' AND entry_date >= $1 AND entry_date <= $2;
		`, m.StartDate, m.EndDate).Scan(&drafts)
		if err != nil {
			return fmt.Errorf("failed to count draft entries in period %s: %w", m.PeriodID, translatePgError(err))
		}
		if drafts > 0 {
			return fmt.Errorf("period %s has %d unposted draft entries: %w", m.Code, drafts, apperrors.ErrConflict)
		}
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE accounting_periods
		SET status = $2, locked_at = $3, locked_by = $4, lock_reason = $5, closing_entry_id = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE period_id = $1;
	`,
		m.PeriodID,
		m.Status,
		m.LockedAt,
		m.LockedBy,
		m.LockReason,
		m.ClosingEntryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update period %s status: %w", m.PeriodID, translatePgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	a := mapping.ToModelAuditEvent(audit)
	_, err = tx.Exec(ctx, `
		INSERT INTO audit_events (event_id, table_name, record_id, operation, before_json, after_json, actor_id, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, a.EventID, a.TableName, a.RecordID, a.Operation, a.BeforeJSON, a.AfterJSON, a.ActorID, a.At)
	if err != nil {
		return fmt.Errorf("failed to record period audit event: %w", translatePgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit period status update: %w", translatePgError(err))
	}
	return nil
}
