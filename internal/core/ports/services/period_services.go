package services

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/dto"
)

// PeriodSvcFacade manages accounting periods and the close/reopen lifecycle.
type PeriodSvcFacade interface {
	// CreatePeriod opens a new accounting period. The window must not overlap
	// any existing period.
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorID string) (*domain.AccountingPeriod, error)

	// GetPeriodByID retrieves a period by its identifier.
	GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// GetPeriodForDate resolves the period containing the given date.
	GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves periods ordered by start date descending.
	ListPeriods(ctx context.Context, limit int, nextToken *string) ([]domain.AccountingPeriod, *string, error)

	// ClosePeriod locks a period against further posting. Fails while DRAFT
	// entries remain dated inside it. Optionally posts a closing entry that
	// zeroes revenue and expense activity into retained earnings.
	ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, actorID string) (*domain.AccountingPeriod, error)

	// ReopenPeriod unlocks a closed period. When a closing entry was posted at
	// close time it is reversed first. The reopen is audited with its reason.
	ReopenPeriod(ctx context.Context, periodID string, reason string, actorID string) (*domain.AccountingPeriod, error)
}
