package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry row.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	EntryNumber       int64           `db:"entry_number"` // 0 until posted
	EntryDate         time.Time       `db:"entry_date"`
	Description       string          `db:"description"`
	SourceType        string          `db:"source_type"`
	Status            EntryStatus     `db:"status"`
	PeriodID          string          `db:"period_id"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	ReversesEntryID   *string         `db:"reverses_entry_id"`
	ReversedByEntryID *string         `db:"reversed_by_entry_id"`
	AuditFields
}

// EntryLine is the entry_lines table row. Detail carries the structured
// per-source annotation serialized as JSONB.
type EntryLine struct {
	LineID         string          `db:"line_id"`
	EntryID        string          `db:"entry_id"`
	AccountID      string          `db:"account_id"`
	SubsidiaryID   *string         `db:"subsidiary_id"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	Memo           string          `db:"memo"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	Detail         []byte          `db:"detail"` // JSONB, nil when absent
	AuditFields
}
