package services

import (
	"context"
	"fmt"

	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// auditService records and reads the append-only audit trail.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, event domain.AuditEvent) error {
	if err := s.auditRepo.RecordEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "failed to record audit event", "table", event.Table, "operation", string(event.Operation))
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

func (s *auditService) RecordInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	if err := s.auditRepo.RecordEventInTx(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to record audit event in transaction: %w", err)
	}
	return nil
}

func (s *auditService) ListEvents(ctx context.Context, filter portsrepo.AuditEventFilter, limit int, nextToken *string) ([]domain.AuditEvent, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	events, next, err := s.auditRepo.ListEvents(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list audit events")
		return nil, nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, next, nil
}
