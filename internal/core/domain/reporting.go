package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report. The
// balance appears in the column matching the account's normal side.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every active account's balance as of a date.
// IsBalanced false indicates ledger corruption, not a business condition.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// BalanceSheetReport partitions account balances by classification as of a date.
// Invariant: TotalAssets == TotalLiabilities + TotalEquity.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// IncomeStatementReport sums revenue and expense activity inside a date range.
// ProfitMargin is nil when there is no revenue.
type IncomeStatementReport struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Revenue      []AccountAmount  `json:"revenue"`
	Expenses     []AccountAmount  `json:"expenses"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	TotalExpense decimal.Decimal  `json:"totalExpense"`
	NetIncome    decimal.Decimal  `json:"netIncome"`
	ProfitMargin *decimal.Decimal `json:"profitMargin,omitempty"`
}

// AccountActivity is the raw per-account debit/credit aggregate the reporting
// repository returns for a date window. Report shaping happens in the service.
type AccountActivity struct {
	AccountID   string
	Code        string
	Name        string
	AccountType AccountType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// CashMovement aggregates cash-account line amounts for one entry source type.
type CashMovement struct {
	SourceType SourceType
	CashIn     decimal.Decimal // Debits to cash accounts
	CashOut    decimal.Decimal // Credits to cash accounts
}

// CashFlowActivity classifies cash movements.
type CashFlowActivity string

const (
	ActivityOperating CashFlowActivity = "OPERATING"
	ActivityInvesting CashFlowActivity = "INVESTING"
	ActivityFinancing CashFlowActivity = "FINANCING"
)

// CashFlowSection aggregates cash movement for one activity class.
type CashFlowSection struct {
	Activity CashFlowActivity `json:"activity"`
	Inflow   decimal.Decimal  `json:"inflow"`
	Outflow  decimal.Decimal  `json:"outflow"`
	Net      decimal.Decimal  `json:"net"`
}

// CashFlowReport reconciles cash movement over a range:
// EndingCash == BeginningCash + Net.
type CashFlowReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Operating     CashFlowSection `json:"operating"`
	Investing     CashFlowSection `json:"investing"`
	Financing     CashFlowSection `json:"financing"`
	Net           decimal.Decimal `json:"net"`
	BeginningCash decimal.Decimal `json:"beginningCash"`
	EndingCash    decimal.Decimal `json:"endingCash"`
}
