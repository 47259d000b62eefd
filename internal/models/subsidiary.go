package models

import "github.com/shopspring/decimal"

// SubsidiaryAccount is the subsidiary_accounts table row.
type SubsidiaryAccount struct {
	SubsidiaryID  string           `db:"subsidiary_id"`
	AccountID     string           `db:"account_id"`
	EntityID      string           `db:"entity_id"`
	EntityType    string           `db:"entity_type"`
	Name          string           `db:"name"`
	DebitBalance  decimal.Decimal  `db:"debit_balance"`
	CreditBalance decimal.Decimal  `db:"credit_balance"`
	CreditLimit   *decimal.Decimal `db:"credit_limit"` // NULL means unlimited
	IsActive      bool             `db:"is_active"`
	AuditFields
}
