package pgsql

import (
	"context"
	"fmt"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/finbooks/ledger_core/internal/models"
	"github.com/finbooks/ledger_core/internal/utils/mapping"
	"github.com/finbooks/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditColumns = `event_id, table_name, record_id, operation, before_json, after_json, actor_id, at`

const auditInsertQuery = `
	INSERT INTO audit_events (` + auditColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) RecordEvent(ctx context.Context, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	_, err := r.pool.Exec(ctx, auditInsertQuery,
		m.EventID, m.TableName, m.RecordID, m.Operation, m.BeforeJSON, m.AfterJSON, m.ActorID, m.At)
	if err != nil {
		return fmt.Errorf("failed to record audit event %s: %w", m.EventID, translatePgError(err))
	}
	return nil
}

func (r *PgxAuditRepository) RecordEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	_, err := tx.Exec(ctx, auditInsertQuery,
		m.EventID, m.TableName, m.RecordID, m.Operation, m.BeforeJSON, m.AfterJSON, m.ActorID, m.At)
	if err != nil {
		return fmt.Errorf("failed to record audit event %s in transaction: %w", m.EventID, translatePgError(err))
	}
	return nil
}

func (r *PgxAuditRepository) ListEvents(ctx context.Context, filter portsrepo.AuditEventFilter, limit int, nextToken *string) ([]domain.AuditEvent, *string, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_events`
	args := []any{}
	conds := ""
	appendCond := func(cond string) {
		if conds == "" {
			conds = " WHERE " + cond
		} else {
			conds += " AND " + cond
		}
	}

	if filter.Table != "" {
		args = append(args, filter.Table)
		appendCond(fmt.Sprintf("table_name = $%d", len(args)))
	}
	if filter.Operation != "" {
		args = append(args, filter.Operation)
		appendCond(fmt.Sprintf("operation = $%d", len(args)))
	}
	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		appendCond(fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		appendCond(fmt.Sprintf("at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		appendCond(fmt.Sprintf("at <= $%d", len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		tokDate, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		args = append(args, tokDate)
		appendCond(fmt.Sprintf("at < $%d", len(args)))
	}
	query += conds + fmt.Sprintf(" ORDER BY at DESC, event_id DESC LIMIT %d;", limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var ms []models.AuditEvent
	for rows.Next() {
		var m models.AuditEvent
		if err := rows.Scan(&m.EventID, &m.TableName, &m.RecordID, &m.Operation,
			&m.BeforeJSON, &m.AfterJSON, &m.ActorID, &m.At); err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating audit event rows: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		token := pagination.EncodeDateBasedToken(ms[limit-1].At)
		next = &token
	}
	events := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		events[i] = mapping.ToDomainAuditEvent(m)
	}
	return events, next, nil
}
