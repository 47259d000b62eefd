package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository aggregates posted entry lines for report generation.
// All queries are read-only and evaluate against an explicit cutoff or range
// so a report never observes a half-applied entry.
type ReportingRepository interface {
	// GetAccountActivity aggregates posted debit/credit totals per active
	// account for lines dated inside [from, to]. A zero `from` means from the
	// beginning of the ledger.
	GetAccountActivity(ctx context.Context, from, to time.Time) ([]domain.AccountActivity, error)

	// GetCashMovements aggregates posted line amounts against the named cash
	// accounts inside [from, to], grouped by entry source type.
	GetCashMovements(ctx context.Context, cashAccountCodes []string, from, to time.Time) ([]domain.CashMovement, error)

	// GetCashBalanceAsOf returns the net cash-account balance up to and
	// including the cutoff.
	GetCashBalanceAsOf(ctx context.Context, cashAccountCodes []string, asOf time.Time) (decimal.Decimal, error)

	// GetCashBalanceBefore returns the net cash-account balance for lines
	// dated strictly before the cutoff. Entry dates are timestamps, so an
	// exclusive bound is the exact complement of a range starting at cutoff.
	GetCashBalanceBefore(ctx context.Context, cashAccountCodes []string, cutoff time.Time) (decimal.Decimal, error)
}
