package services

import (
	"context"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// AuditSvcFacade records and exposes the append-only audit trail.
type AuditSvcFacade interface {
	// Record appends an audit event in its own transaction.
	Record(ctx context.Context, event domain.AuditEvent) error

	// RecordInTx appends an audit event inside a caller-owned transaction so it
	// commits or rolls back with the mutation it describes.
	RecordInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error

	// ListEvents retrieves audit events newest-first using token pagination.
	ListEvents(ctx context.Context, filter repositories.AuditEventFilter, limit int, nextToken *string) ([]domain.AuditEvent, *string, error)
}
