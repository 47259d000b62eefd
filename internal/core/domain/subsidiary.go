package domain

import "github.com/shopspring/decimal"

// EntityType identifies the external party a subsidiary account tracks.
type EntityType string

const (
	EntityCustomer EntityType = "CUSTOMER"
	EntityVendor   EntityType = "VENDOR"
)

// SubsidiaryAccount is a sub-ledger account under exactly one main account.
// Its balance is a breakdown of the main account's balance, never an
// independent ledger: it is mutated only inside the posting transaction that
// also mutates the main account.
type SubsidiaryAccount struct {
	SubsidiaryID  string           `json:"subsidiaryID"`
	AccountID     string           `json:"accountID"` // Owning main account
	EntityID      string           `json:"entityID"`  // External customer/vendor id
	EntityType    EntityType       `json:"entityType"`
	Name          string           `json:"name"`
	DebitBalance  decimal.Decimal  `json:"debitBalance"`
	CreditBalance decimal.Decimal  `json:"creditBalance"`
	CreditLimit   *decimal.Decimal `json:"creditLimit,omitempty"` // nil means unlimited
	IsActive      bool             `json:"isActive"`
	AuditFields
}

// NetBalance is the subsidiary's signed balance using the owning account's type.
func (s SubsidiaryAccount) NetBalance(mainType AccountType) decimal.Decimal {
	diff := s.DebitBalance.Sub(s.CreditBalance)
	if mainType.NormalSign() < 0 {
		return diff.Neg()
	}
	return diff
}

// CreditCheck is the advisory result of a credit-limit evaluation. Callers may
// override an exceeded limit; it is a signal, not an error.
type CreditCheck struct {
	SubsidiaryID string          `json:"subsidiaryID"`
	Exceeded     bool            `json:"exceeded"`
	Limit        decimal.Decimal `json:"limit"`
	Projected    decimal.Decimal `json:"projected"` // Net balance after the proposed debit
	Available    decimal.Decimal `json:"available"` // Limit minus projected, may be negative
}
