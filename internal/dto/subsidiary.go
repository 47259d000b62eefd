package dto

import (
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSubsidiaryRequest defines the data needed to open a subsidiary account
// under a main account.
type CreateSubsidiaryRequest struct {
	AccountID   string            `json:"accountID" binding:"required"`
	EntityID    string            `json:"entityID" binding:"required"`
	EntityType  domain.EntityType `json:"entityType" binding:"required,oneof=CUSTOMER VENDOR"`
	Name        string            `json:"name" binding:"required"`
	CreditLimit *decimal.Decimal  `json:"creditLimit"`
}

// SubsidiaryResponse defines the data returned for a subsidiary account.
type SubsidiaryResponse struct {
	SubsidiaryID  string            `json:"subsidiaryID"`
	AccountID     string            `json:"accountID"`
	EntityID      string            `json:"entityID"`
	EntityType    domain.EntityType `json:"entityType"`
	Name          string            `json:"name"`
	DebitBalance  decimal.Decimal   `json:"debitBalance"`
	CreditBalance decimal.Decimal   `json:"creditBalance"`
	CreditLimit   *decimal.Decimal  `json:"creditLimit,omitempty"`
	IsActive      bool              `json:"isActive"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// CreditCheckRequest holds the proposed debit for a credit-limit evaluation.
type CreditCheckRequest struct {
	ProposedDebit decimal.Decimal `json:"proposedDebit" binding:"required"`
}

// ToSubsidiaryResponse converts a domain.SubsidiaryAccount to its DTO.
func ToSubsidiaryResponse(s *domain.SubsidiaryAccount) SubsidiaryResponse {
	return SubsidiaryResponse{
		SubsidiaryID:  s.SubsidiaryID,
		AccountID:     s.AccountID,
		EntityID:      s.EntityID,
		EntityType:    s.EntityType,
		Name:          s.Name,
		DebitBalance:  s.DebitBalance,
		CreditBalance: s.CreditBalance,
		CreditLimit:   s.CreditLimit,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
	}
}

// ToSubsidiaryResponses converts a slice of subsidiary accounts.
func ToSubsidiaryResponses(subs []domain.SubsidiaryAccount) []SubsidiaryResponse {
	out := make([]SubsidiaryResponse, len(subs))
	for i := range subs {
		out[i] = ToSubsidiaryResponse(&subs[i])
	}
	return out
}
