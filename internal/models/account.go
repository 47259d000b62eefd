package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the domain account type for persistence.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is the accounts table row. Debit/credit accumulators are cached
// balances maintained inside posting transactions.
type Account struct {
	AccountID          string          `db:"account_id"`
	Code               string          `db:"code"`
	Name               string          `db:"name"`
	NameLocal          string          `db:"name_local"`
	AccountType        AccountType     `db:"account_type"`
	ParentAccountID    string          `db:"parent_account_id"` // Nullable
	Path               string          `db:"path"`
	Description        string          `db:"description"`
	DebitBalance       decimal.Decimal `db:"debit_balance"`
	CreditBalance      decimal.Decimal `db:"credit_balance"`
	AllowManualEntries bool            `db:"allow_manual_entries"`
	IsSystemAccount    bool            `db:"is_system_account"`
	IsActive           bool            `db:"is_active"`
	AuditFields
}
