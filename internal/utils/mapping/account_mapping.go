package mapping

import (
	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/models"
)

// ToModelAccount converts a domain Account to its persistence row.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		Code:               d.Code,
		Name:               d.Name,
		NameLocal:          d.NameLocal,
		AccountType:        models.AccountType(d.AccountType),
		ParentAccountID:    d.ParentAccountID,
		Path:               d.Path,
		Description:        d.Description,
		DebitBalance:       d.DebitBalance,
		CreditBalance:      d.CreditBalance,
		AllowManualEntries: d.AllowManualEntries,
		IsSystemAccount:    d.IsSystemAccount,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts an accounts row to the domain type.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		Code:               m.Code,
		Name:               m.Name,
		NameLocal:          m.NameLocal,
		AccountType:        domain.AccountType(m.AccountType),
		ParentAccountID:    m.ParentAccountID,
		Path:               m.Path,
		Description:        m.Description,
		DebitBalance:       m.DebitBalance,
		CreditBalance:      m.CreditBalance,
		AllowManualEntries: m.AllowManualEntries,
		IsSystemAccount:    m.IsSystemAccount,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of account rows.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	out := make([]domain.Account, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAccount(m)
	}
	return out
}

// ToModelSubsidiary converts a domain SubsidiaryAccount to its persistence row.
func ToModelSubsidiary(d domain.SubsidiaryAccount) models.SubsidiaryAccount {
	return models.SubsidiaryAccount{
		SubsidiaryID:  d.SubsidiaryID,
		AccountID:     d.AccountID,
		EntityID:      d.EntityID,
		EntityType:    string(d.EntityType),
		Name:          d.Name,
		DebitBalance:  d.DebitBalance,
		CreditBalance: d.CreditBalance,
		CreditLimit:   d.CreditLimit,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSubsidiary converts a subsidiary_accounts row to the domain type.
func ToDomainSubsidiary(m models.SubsidiaryAccount) domain.SubsidiaryAccount {
	return domain.SubsidiaryAccount{
		SubsidiaryID:  m.SubsidiaryID,
		AccountID:     m.AccountID,
		EntityID:      m.EntityID,
		EntityType:    domain.EntityType(m.EntityType),
		Name:          m.Name,
		DebitBalance:  m.DebitBalance,
		CreditBalance: m.CreditBalance,
		CreditLimit:   m.CreditLimit,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
