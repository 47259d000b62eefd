package mapping

import (
	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/models"
)

// ToModelPeriod converts a domain AccountingPeriod to its persistence row.
func ToModelPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:       d.PeriodID,
		Code:           d.Code,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Status:         string(d.Status),
		LockedAt:       d.LockedAt,
		LockedBy:       d.LockedBy,
		LockReason:     d.LockReason,
		ClosingEntryID: d.ClosingEntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts an accounting_periods row to the domain type.
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:       m.PeriodID,
		Code:           m.Code,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Status:         domain.PeriodStatus(m.Status),
		LockedAt:       m.LockedAt,
		LockedBy:       m.LockedBy,
		LockReason:     m.LockReason,
		ClosingEntryID: m.ClosingEntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAuditEvent converts a domain AuditEvent to its persistence row.
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	return models.AuditEvent{
		EventID:    d.EventID,
		TableName:  d.Table,
		RecordID:   d.RecordID,
		Operation:  string(d.Operation),
		BeforeJSON: d.Before,
		AfterJSON:  d.After,
		ActorID:    d.ActorID,
		At:         d.At,
	}
}

// ToDomainAuditEvent converts an audit_events row to the domain type.
func ToDomainAuditEvent(m models.AuditEvent) domain.AuditEvent {
	return domain.AuditEvent{
		EventID:   m.EventID,
		Table:     m.TableName,
		RecordID:  m.RecordID,
		Operation: domain.AuditOperation(m.Operation),
		Before:    m.BeforeJSON,
		After:     m.AfterJSON,
		ActorID:   m.ActorID,
		At:        m.At,
	}
}
