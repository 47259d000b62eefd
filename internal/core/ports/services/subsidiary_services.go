package services

import (
	"context"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
)

// SubsidiarySvcFacade manages per-entity subsidiary accounts under main
// accounts (customer receivables, vendor payables).
type SubsidiarySvcFacade interface {
	// CreateSubsidiary opens a subsidiary account under an existing main account.
	CreateSubsidiary(ctx context.Context, req dto.CreateSubsidiaryRequest, creatorID string) (*domain.SubsidiaryAccount, error)

	// GetSubsidiaryByID retrieves a single subsidiary account.
	GetSubsidiaryByID(ctx context.Context, subsidiaryID string) (*domain.SubsidiaryAccount, error)

	// ListSubsidiariesByAccount retrieves the subsidiaries under a main account.
	ListSubsidiariesByAccount(ctx context.Context, accountID string) ([]domain.SubsidiaryAccount, error)

	// GetSubsidiaryBalance returns the subsidiary's signed net balance using the
	// owning main account's normal side.
	GetSubsidiaryBalance(ctx context.Context, subsidiaryID string) (decimal.Decimal, error)

	// CheckCreditLimit evaluates whether a proposed debit would push the
	// subsidiary past its credit limit. Advisory only; it never blocks posting.
	CheckCreditLimit(ctx context.Context, subsidiaryID string, proposedDebit decimal.Decimal) (*domain.CreditCheck, error)
}
