package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/finbooks/ledger_core/internal/models"
	"github.com/finbooks/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subsidiaryColumns = `subsidiary_id, account_id, entity_id, entity_type, name,
	debit_balance, credit_balance, credit_limit, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxSubsidiaryRepository struct {
	BaseRepository
}

// newPgxSubsidiaryRepository creates a new repository for subsidiary ledger data.
func newPgxSubsidiaryRepository(pool *pgxpool.Pool) portsrepo.SubsidiaryRepositoryFacade {
	return &PgxSubsidiaryRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.SubsidiaryRepositoryFacade = (*PgxSubsidiaryRepository)(nil)

func scanSubsidiary(row pgx.Row) (models.SubsidiaryAccount, error) {
	var m models.SubsidiaryAccount
	err := row.Scan(
		&m.SubsidiaryID,
		&m.AccountID,
		&m.EntityID,
		&m.EntityType,
		&m.Name,
		&m.DebitBalance,
		&m.CreditBalance,
		&m.CreditLimit,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSubsidiaryRepository) SaveSubsidiary(ctx context.Context, sub domain.SubsidiaryAccount) error {
	m := mapping.ToModelSubsidiary(sub)

	query := `
		INSERT INTO subsidiary_accounts (` + subsidiaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.SubsidiaryID,
		m.AccountID,
		m.EntityID,
		m.EntityType,
		m.Name,
		m.DebitBalance,
		m.CreditBalance,
		m.CreditLimit,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translatePgError(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return fmt.Errorf("subsidiary for entity %s already exists under account %s: %w",
				m.EntityID, m.AccountID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save subsidiary account %s: %w", m.SubsidiaryID, err)
	}
	return nil
}

func (r *PgxSubsidiaryRepository) FindSubsidiaryByID(ctx context.Context, subsidiaryID string) (*domain.SubsidiaryAccount, error) {
	query := `SELECT ` + subsidiaryColumns + ` FROM subsidiary_accounts WHERE subsidiary_id = $1;`
	m, err := scanSubsidiary(r.pool.QueryRow(ctx, query, subsidiaryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subsidiary by ID %s: %w", subsidiaryID, err)
	}
	sub := mapping.ToDomainSubsidiary(m)
	return &sub, nil
}

func (r *PgxSubsidiaryRepository) FindSubsidiariesByIDs(ctx context.Context, subsidiaryIDs []string) (map[string]domain.SubsidiaryAccount, error) {
	if len(subsidiaryIDs) == 0 {
		return map[string]domain.SubsidiaryAccount{}, nil
	}

	query := `SELECT ` + subsidiaryColumns + ` FROM subsidiary_accounts WHERE subsidiary_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, subsidiaryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query subsidiaries by IDs: %w", err)
	}
	defer rows.Close()

	subsMap := make(map[string]domain.SubsidiaryAccount)
	for rows.Next() {
		m, err := scanSubsidiary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subsidiary row during batch fetch: %w", err)
		}
		subsMap[m.SubsidiaryID] = mapping.ToDomainSubsidiary(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subsidiary rows during batch fetch: %w", err)
	}
	return subsMap, nil
}

func (r *PgxSubsidiaryRepository) ListSubsidiariesByAccount(ctx context.Context, accountID string) ([]domain.SubsidiaryAccount, error) {
	query := `SELECT ` + subsidiaryColumns + ` FROM subsidiary_accounts WHERE account_id = $1 ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subsidiaries of account %s: %w", accountID, err)
	}
	defer rows.Close()

	var subs []domain.SubsidiaryAccount
	for rows.Next() {
		m, err := scanSubsidiary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subsidiary row: %w", err)
		}
		subs = append(subs, mapping.ToDomainSubsidiary(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subsidiary rows: %w", err)
	}
	return subs, nil
}

// FindSubsidiariesByIDsForUpdate locks the subsidiary rows in sorted ID order,
// mirroring the account lock discipline.
func (r *PgxSubsidiaryRepository) FindSubsidiariesByIDsForUpdate(ctx context.Context, tx pgx.Tx, subsidiaryIDs []string) (map[string]domain.SubsidiaryAccount, error) {
	if len(subsidiaryIDs) == 0 {
		return map[string]domain.SubsidiaryAccount{}, nil
	}

	sorted := make([]string, len(subsidiaryIDs))
	copy(sorted, subsidiaryIDs)
	sort.Strings(sorted)

	query := `
		SELECT ` + subsidiaryColumns + `
		FROM subsidiary_accounts
		WHERE subsidiary_id = ANY($1)
		ORDER BY subsidiary_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to lock subsidiary rows: %w", translatePgError(err))
	}
	defer rows.Close()

	subsMap := make(map[string]domain.SubsidiaryAccount)
	for rows.Next() {
		m, err := scanSubsidiary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked subsidiary row: %w", err)
		}
		subsMap[m.SubsidiaryID] = mapping.ToDomainSubsidiary(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked subsidiary rows: %w", translatePgError(err))
	}

	if len(subsMap) != len(sorted) {
		missing := []string{}
		for _, id := range sorted {
			if _, found := subsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("could not find or lock subsidiaries %v: %w", missing, apperrors.ErrNotFound)
	}
	return subsMap, nil
}

func (r *PgxSubsidiaryRepository) ApplySubsidiaryDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]domain.BalanceDelta, actorID string, at time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE subsidiary_accounts
		SET debit_balance = debit_balance + $2,
		    credit_balance = credit_balance + $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE subsidiary_id = $1;
	`
	batch := &pgx.Batch{}
	subsidiaryIDs := make([]string, 0, len(deltas))
	for subsidiaryID, delta := range deltas {
		if delta.Debit.IsZero() && delta.Credit.IsZero() {
			continue
		}
		batch.Queue(query, subsidiaryID, delta.Debit, delta.Credit, at, actorID)
		subsidiaryIDs = append(subsidiaryIDs, subsidiaryID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for subsidiary %s: %w", subsidiaryIDs[i], translatePgError(err))
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("subsidiary %s not found during balance update: %w", subsidiaryIDs[i], apperrors.ErrNotFound)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close subsidiary balance update batch: %w", translatePgError(err))
	}
	return batchErr
}
