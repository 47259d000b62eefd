package services

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
)

// ReportingSvcFacade builds financial statements from posted activity. Every
// report reads a transactionally consistent aggregate, so a concurrent posting
// is either fully visible or not at all.
type ReportingSvcFacade interface {
	// GetTrialBalance lists every active account with its debit/credit balance
	// as of the cutoff. Total debits must equal total credits; a mismatch is
	// surfaced as apperrors.ErrIntegrity.
	GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// GetBalanceSheet groups asset, liability and equity balances as of the
	// cutoff, folding net income to date into equity.
	GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// GetIncomeStatement aggregates revenue and expense activity inside the
	// date range.
	GetIncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)

	// GetCashFlowStatement classifies cash-account movements in the range into
	// operating, investing and financing activity by entry source type.
	GetCashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error)
}
