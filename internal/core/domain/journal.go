package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// SourceType identifies the upstream origin of a journal entry.
type SourceType string

const (
	SourceInvoice    SourceType = "INVOICE"
	SourcePayment    SourceType = "PAYMENT"
	SourceAdjustment SourceType = "ADJUSTMENT"
	SourceManual     SourceType = "MANUAL"
	SourceClosing    SourceType = "CLOSING"
	SourceOpening    SourceType = "OPENING"
)

// IsValid reports whether s is a known source type.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceInvoice, SourcePayment, SourceAdjustment, SourceManual, SourceClosing, SourceOpening:
		return true
	}
	return false
}

// JournalEntry is a single, balanced financial event composed of at least two
// lines. Lines never change after posting; only a reversal may follow.
type JournalEntry struct {
	EntryID          string          `json:"entryID"`     // Primary key (UUID)
	EntryNumber      int64           `json:"entryNumber"` // Assigned at posting, monotonic per fiscal year
	EntryDate        time.Time       `json:"entryDate"`
	Description      string          `json:"description"`
	SourceType       SourceType      `json:"sourceType"`
	Status           EntryStatus     `json:"status"`
	PeriodID         string          `json:"periodID"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	ReversesEntryID  *string         `json:"reversesEntryID,omitempty"`  // Set on the reversal entry
	ReversedByEntryID *string        `json:"reversedByEntryID,omitempty"` // Set on the original entry
	Lines            []EntryLine     `json:"lines,omitempty"`
	AuditFields
}

// IsBalanced reports whether total debits equal total credits exactly.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}

// EntryLine is one debit or credit against a single account, optionally broken
// down to a subsidiary account. Exactly one of DebitAmount/CreditAmount is
// nonzero.
type EntryLine struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	AccountID      string          `json:"accountID"`
	SubsidiaryID   *string         `json:"subsidiaryID,omitempty"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	Memo           string          `json:"memo"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account net balance after this line
	Detail         *LineDetail     `json:"detail,omitempty"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l EntryLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the nonzero side of the line.
func (l EntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// BalanceDelta is the raw accumulator change a posting applies to one account
// or subsidiary account.
type BalanceDelta struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Add returns the component-wise sum of two deltas.
func (b BalanceDelta) Add(other BalanceDelta) BalanceDelta {
	return BalanceDelta{
		Debit:  b.Debit.Add(other.Debit),
		Credit: b.Credit.Add(other.Credit),
	}
}

// DetailKind discriminates the structured line annotation variants.
type DetailKind string

const (
	DetailInvoice DetailKind = "INVOICE"
	DetailPayment DetailKind = "PAYMENT"
	DetailClosing DetailKind = "CLOSING"
)

// LineDetail is a closed set of per-source structured annotations. Exactly one
// branch matching Kind is set; there is no open-ended metadata map.
type LineDetail struct {
	Kind    DetailKind     `json:"kind"`
	Invoice *InvoiceDetail `json:"invoice,omitempty"`
	Payment *PaymentDetail `json:"payment,omitempty"`
	Closing *ClosingDetail `json:"closing,omitempty"`
}

// InvoiceDetail annotates lines originating from an invoice.
type InvoiceDetail struct {
	InvoiceNo  string `json:"invoiceNo"`
	CustomerID string `json:"customerID"`
}

// PaymentDetail annotates lines originating from a payment.
type PaymentDetail struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

// ClosingDetail annotates lines generated by a period close.
type ClosingDetail struct {
	PeriodCode string `json:"periodCode"`
}
