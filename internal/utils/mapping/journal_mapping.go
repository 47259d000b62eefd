package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its persistence row.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Description:       d.Description,
		SourceType:        string(d.SourceType),
		Status:            models.EntryStatus(d.Status),
		PeriodID:          d.PeriodID,
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		ReversesEntryID:   d.ReversesEntryID,
		ReversedByEntryID: d.ReversedByEntryID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a journal_entries row to the domain type.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		Description:       m.Description,
		SourceType:        domain.SourceType(m.SourceType),
		Status:            domain.EntryStatus(m.Status),
		PeriodID:          m.PeriodID,
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		ReversesEntryID:   m.ReversesEntryID,
		ReversedByEntryID: m.ReversedByEntryID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain EntryLine, serializing the structured
// detail variant to JSON for the JSONB column.
func ToModelEntryLine(d domain.EntryLine) (models.EntryLine, error) {
	var detail []byte
	if d.Detail != nil {
		b, err := json.Marshal(d.Detail)
		if err != nil {
			return models.EntryLine{}, fmt.Errorf("failed to marshal line detail for line %s: %w", d.LineID, err)
		}
		detail = b
	}
	return models.EntryLine{
		LineID:         d.LineID,
		EntryID:        d.EntryID,
		AccountID:      d.AccountID,
		SubsidiaryID:   d.SubsidiaryID,
		DebitAmount:    d.DebitAmount,
		CreditAmount:   d.CreditAmount,
		Memo:           d.Memo,
		RunningBalance: d.RunningBalance,
		Detail:         detail,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainEntryLine converts an entry_lines row, deserializing the detail
// variant when present.
func ToDomainEntryLine(m models.EntryLine) (domain.EntryLine, error) {
	var detail *domain.LineDetail
	if len(m.Detail) > 0 {
		detail = &domain.LineDetail{}
		if err := json.Unmarshal(m.Detail, detail); err != nil {
			return domain.EntryLine{}, fmt.Errorf("failed to unmarshal line detail for line %s: %w", m.LineID, err)
		}
	}
	return domain.EntryLine{
		LineID:         m.LineID,
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		SubsidiaryID:   m.SubsidiaryID,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		Memo:           m.Memo,
		RunningBalance: m.RunningBalance,
		Detail:         detail,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainEntryLineSlice converts entry_lines rows, failing on the first bad row.
func ToDomainEntryLineSlice(ms []models.EntryLine) ([]domain.EntryLine, error) {
	out := make([]domain.EntryLine, len(ms))
	for i, m := range ms {
		line, err := ToDomainEntryLine(m)
		if err != nil {
			return nil, err
		}
		out[i] = line
	}
	return out, nil
}
