package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSign returns +1 for debit-normal account types (asset, expense) and -1
// for credit-normal ones (liability, equity, revenue). Zero for unknown types.
func (t AccountType) NormalSign() int32 {
	switch t {
	case Asset, Expense:
		return 1
	case Liability, Equity, Revenue:
		return -1
	}
	return 0
}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	return t.NormalSign() != 0
}

// Account is a node in the chart of accounts. Balances are cached here and
// mutated only by the posting engine; "as of" balances are recomputed from
// posted lines on demand.
type Account struct {
	AccountID          string          `json:"accountID"`   // Primary key (UUID)
	Code               string          `json:"code"`        // Unique, stable sort key
	Name               string          `json:"name"`        // Display name
	NameLocal          string          `json:"nameLocal"`   // Optional secondary-language name
	AccountType        AccountType     `json:"accountType"` // ASSET, LIABILITY, ...
	ParentAccountID    string          `json:"parentAccountID"` // Empty for root accounts
	Path               string          `json:"path"`            // Materialized code path, e.g. "1000.1100"
	Description        string          `json:"description"`
	DebitBalance       decimal.Decimal `json:"debitBalance"`  // Raw debit accumulator
	CreditBalance      decimal.Decimal `json:"creditBalance"` // Raw credit accumulator
	AllowManualEntries bool            `json:"allowManualEntries"`
	IsSystemAccount    bool            `json:"isSystemAccount"`
	IsActive           bool            `json:"isActive"`
	AuditFields
}

// NetBalance is the signed balance of the account, positive when the account
// carries a balance on its normal side. Invariant: equals the signed sum of
// every posted line ever applied to the account.
func (a Account) NetBalance() decimal.Decimal {
	diff := a.DebitBalance.Sub(a.CreditBalance)
	if a.AccountType.NormalSign() < 0 {
		return diff.Neg()
	}
	return diff
}
