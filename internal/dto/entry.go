package dto

import (
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one candidate line of a journal entry. Exactly one of
// debitAmount/creditAmount must be nonzero; the service enforces this beyond
// the binding-level checks.
type EntryLineRequest struct {
	AccountID    string             `json:"accountID" binding:"required"`
	SubsidiaryID *string            `json:"subsidiaryID"`
	DebitAmount  decimal.Decimal    `json:"debitAmount"`
	CreditAmount decimal.Decimal    `json:"creditAmount"`
	Memo         string             `json:"memo"`
	Detail       *domain.LineDetail `json:"detail"`
}

// SubmitEntryRequest is a candidate journal entry handed to the posting engine.
type SubmitEntryRequest struct {
	EntryDate   time.Time          `json:"entryDate" binding:"required"`
	Description string             `json:"description" binding:"required"`
	SourceType  domain.SourceType  `json:"sourceType" binding:"required,oneof=INVOICE PAYMENT ADJUSTMENT MANUAL CLOSING OPENING"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest carries the reversal reason.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EntryLineResponse defines the data returned for an entry line.
type EntryLineResponse struct {
	LineID         string             `json:"lineID"`
	AccountID      string             `json:"accountID"`
	SubsidiaryID   *string            `json:"subsidiaryID,omitempty"`
	DebitAmount    decimal.Decimal    `json:"debitAmount"`
	CreditAmount   decimal.Decimal    `json:"creditAmount"`
	Memo           string             `json:"memo,omitempty"`
	RunningBalance decimal.Decimal    `json:"runningBalance"`
	Detail         *domain.LineDetail `json:"detail,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string              `json:"entryID"`
	EntryNumber       int64               `json:"entryNumber,omitempty"`
	EntryDate         time.Time           `json:"entryDate"`
	Description       string              `json:"description"`
	SourceType        domain.SourceType   `json:"sourceType"`
	Status            domain.EntryStatus  `json:"status"`
	PeriodID          string              `json:"periodID,omitempty"`
	TotalDebit        decimal.Decimal     `json:"totalDebit"`
	TotalCredit       decimal.Decimal     `json:"totalCredit"`
	IsBalanced        bool                `json:"isBalanced"`
	ReversesEntryID   *string             `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string             `json:"reversedByEntryID,omitempty"`
	Lines             []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
}

// ListEntriesParams holds query parameters for listing entries.
type ListEntriesParams struct {
	Status    *string `form:"status"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of entries plus the continuation token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.EntryLine to its DTO.
func ToEntryLineResponse(l *domain.EntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:         l.LineID,
		AccountID:      l.AccountID,
		SubsidiaryID:   l.SubsidiaryID,
		DebitAmount:    l.DebitAmount,
		CreditAmount:   l.CreditAmount,
		Memo:           l.Memo,
		RunningBalance: l.RunningBalance,
		Detail:         l.Detail,
	}
}

// ToEntryResponse converts a domain.JournalEntry (with or without lines).
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		SourceType:        e.SourceType,
		Status:            e.Status,
		PeriodID:          e.PeriodID,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		IsBalanced:        e.IsBalanced(),
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ToEntryResponses converts a slice of domain entries.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out
}
