package models

import "time"

// AccountingPeriod is the accounting_periods table row.
type AccountingPeriod struct {
	PeriodID       string     `db:"period_id"`
	Code           string     `db:"code"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        time.Time  `db:"end_date"`
	Status         string     `db:"status"`
	LockedAt       *time.Time `db:"locked_at"`
	LockedBy       *string    `db:"locked_by"`
	LockReason     string     `db:"lock_reason"`
	ClosingEntryID *string    `db:"closing_entry_id"`
	AuditFields
}
