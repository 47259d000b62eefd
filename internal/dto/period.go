package dto

import (
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to open an accounting period.
type CreatePeriodRequest struct {
	Code      string    `json:"code" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// ClosePeriodRequest controls the close operation. When
// GenerateClosingEntry is set, revenue and expense balances for the period are
// zeroed into the named retained-earnings account.
type ClosePeriodRequest struct {
	Reason                  string `json:"reason"`
	GenerateClosingEntry    bool   `json:"generateClosingEntry"`
	RetainedEarningsAccount string `json:"retainedEarningsAccount"` // Account code, required when generating
}

// ReopenPeriodRequest carries the privileged reopen justification.
type ReopenPeriodRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID       string              `json:"periodID"`
	Code           string              `json:"code"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	Status         domain.PeriodStatus `json:"status"`
	LockedAt       *time.Time          `json:"lockedAt,omitempty"`
	LockedBy       *string             `json:"lockedBy,omitempty"`
	LockReason     string              `json:"lockReason,omitempty"`
	ClosingEntryID *string             `json:"closingEntryID,omitempty"`
}

// ListPeriodsParams holds query parameters for listing periods.
type ListPeriodsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPeriodsResponse is a page of periods plus the continuation token.
type ListPeriodsResponse struct {
	Periods   []PeriodResponse `json:"periods"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:       p.PeriodID,
		Code:           p.Code,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Status:         p.Status,
		LockedAt:       p.LockedAt,
		LockedBy:       p.LockedBy,
		LockReason:     p.LockReason,
		ClosingEntryID: p.ClosingEntryID,
	}
}

// ToPeriodResponses converts a slice of periods.
func ToPeriodResponses(periods []domain.AccountingPeriod) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out
}
