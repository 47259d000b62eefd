package domain

import "time"

// PeriodStatus enumerates accounting period states. Transitions are one-way
// (OPEN -> CLOSED) except for the privileged reopen override.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a posting window. No entry dated inside a closed period
// may be created or altered, except closing entries generated by the close
// operation itself.
type AccountingPeriod struct {
	PeriodID       string       `json:"periodID"`
	Code           string       `json:"code"` // Year-month key, e.g. "2026-03"
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	LockedAt       *time.Time   `json:"lockedAt,omitempty"`
	LockedBy       *string      `json:"lockedBy,omitempty"`
	LockReason     string       `json:"lockReason,omitempty"`
	ClosingEntryID *string      `json:"closingEntryID,omitempty"`
	AuditFields
}

// Contains reports whether d falls inside the period window (inclusive).
func (p AccountingPeriod) Contains(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	return !day.Before(p.StartDate.Truncate(24*time.Hour)) && !day.After(p.EndDate.Truncate(24*time.Hour))
}

// IsLocked reports whether postings into the period are rejected.
func (p AccountingPeriod) IsLocked() bool {
	return p.Status == PeriodClosed
}
