package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
)

// PeriodRepository defines operations for accounting period data.
type PeriodRepository interface {
	// FindPeriodByID retrieves a period by its identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByCode retrieves a period by its year-month code.
	FindPeriodByCode(ctx context.Context, code string) (*domain.AccountingPeriod, error)

	// FindPeriodForDate resolves the period containing the given date.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// FindOverlappingPeriod returns any period whose window intersects [start, end].
	FindOverlappingPeriod(ctx context.Context, start, end time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves periods ordered by start date descending.
	ListPeriods(ctx context.Context, limit int, nextToken *string) ([]domain.AccountingPeriod, *string, error)

	// SavePeriod inserts a new period. Returns apperrors.ErrDuplicate on a
	// taken code.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodStatus transitions period state and writes the audit event in
	// the same transaction. The period row is locked for the duration; the
	// current status (and, on close, the absence of draft entries in the
	// window) is re-validated under the lock, returning apperrors.ErrConflict
	// when a concurrent change invalidated the caller's view.
	UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod, audit domain.AuditEvent) error
}
