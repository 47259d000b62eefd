package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService shapes posted activity aggregates into financial
// statements. All arithmetic happens here on raw per-account debit/credit
// totals; the repository only aggregates.
type reportingService struct {
	BaseService
	reportingRepo    portsrepo.ReportingRepository
	cashAccountCodes []string
}

// NewReportingService creates a new reporting service. cashAccountCodes names
// the accounts treated as cash for the cash flow statement.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, cashAccountCodes []string) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo:    reportingRepo,
		cashAccountCodes: cashAccountCodes,
	}
}

func (s *reportingService) GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to aggregate account activity for trial balance")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, act := range activity {
		row := domain.TrialBalanceRow{
			AccountID:   act.AccountID,
			Code:        act.Code,
			Name:        act.Name,
			AccountType: act.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		// The balance lands in the column it actually sits on, regardless of
		// the account's normal side.
		net := act.Debit.Sub(act.Credit)
		switch {
		case net.IsPositive():
			row.Debit = net
		case net.IsNegative():
			row.Credit = net.Neg()
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	report.IsBalanced = report.TotalDebit.Equal(report.TotalCredit)

	if !report.IsBalanced {
		s.LogError(ctx, apperrors.ErrIntegrity, "trial balance does not balance",
			"totalDebit", report.TotalDebit.String(), "totalCredit", report.TotalCredit.String())
		return report, fmt.Errorf("trial balance out of balance (debits %s, credits %s): %w",
			report.TotalDebit.String(), report.TotalCredit.String(), apperrors.ErrIntegrity)
	}
	return report, nil
}

func (s *reportingService) GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to aggregate account activity for balance sheet")
		return nil, fmt.Errorf("failed to build balance sheet: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	netIncome := decimal.Zero
	for _, act := range activity {
		switch act.AccountType {
		case domain.Asset:
			amount := act.Debit.Sub(act.Credit)
			report.Assets = append(report.Assets, accountAmount(act, amount))
			report.TotalAssets = report.TotalAssets.Add(amount)
		case domain.Liability:
			amount := act.Credit.Sub(act.Debit)
			report.Liabilities = append(report.Liabilities, accountAmount(act, amount))
			report.TotalLiabilities = report.TotalLiabilities.Add(amount)
		case domain.Equity:
			amount := act.Credit.Sub(act.Debit)
			report.Equity = append(report.Equity, accountAmount(act, amount))
			report.TotalEquity = report.TotalEquity.Add(amount)
		case domain.Revenue, domain.Expense:
			// Unclosed revenue/expense activity folds into equity as earnings.
			netIncome = netIncome.Add(act.Credit.Sub(act.Debit))
		}
	}
	if !netIncome.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{
			Name:      "Current earnings",
			NetAmount: netIncome,
		})
		report.TotalEquity = report.TotalEquity.Add(netIncome)
	}
	return report, nil
}

func (s *reportingService) GetIncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to aggregate account activity for income statement")
		return nil, fmt.Errorf("failed to build income statement: %w", err)
	}

	report := &domain.IncomeStatementReport{
		From:         from,
		To:           to,
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, act := range activity {
		switch act.AccountType {
		case domain.Revenue:
			amount := act.Credit.Sub(act.Debit)
			report.Revenue = append(report.Revenue, accountAmount(act, amount))
			report.TotalRevenue = report.TotalRevenue.Add(amount)
		case domain.Expense:
			amount := act.Debit.Sub(act.Credit)
			report.Expenses = append(report.Expenses, accountAmount(act, amount))
			report.TotalExpense = report.TotalExpense.Add(amount)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)
	if !report.TotalRevenue.IsZero() {
		margin := report.NetIncome.Div(report.TotalRevenue).Round(4)
		report.ProfitMargin = &margin
	}
	return report, nil
}

func (s *reportingService) GetCashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	if len(s.cashAccountCodes) == 0 {
		return nil, fmt.Errorf("no cash accounts configured: %w", apperrors.ErrValidation)
	}

	movements, err := s.reportingRepo.GetCashMovements(ctx, s.cashAccountCodes, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to aggregate cash movements")
		return nil, fmt.Errorf("failed to build cash flow statement: %w", err)
	}

	report := &domain.CashFlowReport{
		From:      from,
		To:        to,
		Operating: newCashFlowSection(domain.ActivityOperating),
		Investing: newCashFlowSection(domain.ActivityInvesting),
		Financing: newCashFlowSection(domain.ActivityFinancing),
		Net:       decimal.Zero,
	}
	for _, mov := range movements {
		var section *domain.CashFlowSection
		switch classifyCashActivity(mov.SourceType) {
		case domain.ActivityInvesting:
			section = &report.Investing
		case domain.ActivityFinancing:
			section = &report.Financing
		default:
			section = &report.Operating
		}
		section.Inflow = section.Inflow.Add(mov.CashIn)
		section.Outflow = section.Outflow.Add(mov.CashOut)
		section.Net = section.Inflow.Sub(section.Outflow)
	}
	report.Net = report.Operating.Net.Add(report.Investing.Net).Add(report.Financing.Net)

	// Beginning cash covers everything dated strictly before the range so the
	// two aggregates partition the timeline exactly.
	report.BeginningCash, err = s.reportingRepo.GetCashBalanceBefore(ctx, s.cashAccountCodes, from)
	if err != nil {
		return nil, fmt.Errorf("failed to compute beginning cash balance: %w", err)
	}
	report.EndingCash, err = s.reportingRepo.GetCashBalanceAsOf(ctx, s.cashAccountCodes, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ending cash balance: %w", err)
	}

	// Movements must reconcile with the cash balances they came from.
	if !report.BeginningCash.Add(report.Net).Equal(report.EndingCash) {
		s.LogError(ctx, apperrors.ErrIntegrity, "cash flow does not reconcile",
			"beginning", report.BeginningCash.String(), "net", report.Net.String(), "ending", report.EndingCash.String())
		return report, fmt.Errorf("cash flow does not reconcile (beginning %s + net %s != ending %s): %w",
			report.BeginningCash.String(), report.Net.String(), report.EndingCash.String(), apperrors.ErrIntegrity)
	}
	return report, nil
}

// classifyCashActivity maps an entry source type to a cash flow section.
// Day-to-day trading activity is operating; adjustments outside the trading
// cycle are treated as investing; opening and closing capital movements as
// financing.
func classifyCashActivity(sourceType domain.SourceType) domain.CashFlowActivity {
	switch sourceType {
	case domain.SourceAdjustment:
		return domain.ActivityInvesting
	case domain.SourceOpening, domain.SourceClosing:
		return domain.ActivityFinancing
	default:
		return domain.ActivityOperating
	}
}

func newCashFlowSection(activity domain.CashFlowActivity) domain.CashFlowSection {
	return domain.CashFlowSection{
		Activity: activity,
		Inflow:   decimal.Zero,
		Outflow:  decimal.Zero,
		Net:      decimal.Zero,
	}
}

func accountAmount(act domain.AccountActivity, amount decimal.Decimal) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: act.AccountID,
		Code:      act.Code,
		Name:      act.Name,
		NetAmount: amount,
	}
}
