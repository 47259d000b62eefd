package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditEventFilter narrows audit trail listings.
type AuditEventFilter struct {
	Table     string
	Operation string
	ActorID   string
	From      time.Time
	To        time.Time
}

// AuditRepository defines operations for the append-only audit trail.
type AuditRepository interface {
	// RecordEvent appends an audit event in its own transaction. Used by
	// mutations that do not already run inside a posting transaction.
	RecordEvent(ctx context.Context, event domain.AuditEvent) error

	// RecordEventInTx appends an audit event inside a caller-owned transaction
	// so the event commits or rolls back with the mutation it describes.
	RecordEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error

	// ListEvents retrieves audit events newest-first using token pagination.
	ListEvents(ctx context.Context, filter AuditEventFilter, limit int, nextToken *string) ([]domain.AuditEvent, *string, error)
}
