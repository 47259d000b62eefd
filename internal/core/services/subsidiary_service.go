package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// subsidiaryService manages per-entity breakdowns of main account balances.
type subsidiaryService struct {
	BaseService
	subsidiaryRepo portsrepo.SubsidiaryRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
	auditSvc       portssvc.AuditSvcFacade
}

// NewSubsidiaryService creates a new subsidiary ledger service.
func NewSubsidiaryService(
	subsidiaryRepo portsrepo.SubsidiaryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.SubsidiarySvcFacade {
	return &subsidiaryService{
		subsidiaryRepo: subsidiaryRepo,
		accountRepo:    accountRepo,
		auditSvc:       auditSvc,
	}
}

func (s *subsidiaryService) CreateSubsidiary(ctx context.Context, req dto.CreateSubsidiaryRequest, creatorID string) (*domain.SubsidiaryAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("main account %s: %w", req.AccountID, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("main account %s is inactive: %w", account.Code, apperrors.ErrValidation)
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("credit limit must be non-negative: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	sub := domain.SubsidiaryAccount{
		SubsidiaryID:  uuid.NewString(),
		AccountID:     account.AccountID,
		EntityID:      req.EntityID,
		EntityType:    req.EntityType,
		Name:          req.Name,
		DebitBalance:  decimal.Zero,
		CreditBalance: decimal.Zero,
		CreditLimit:   req.CreditLimit,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.subsidiaryRepo.SaveSubsidiary(ctx, sub); err != nil {
		s.LogError(ctx, err, "failed to save subsidiary account", "accountID", account.AccountID, "entityID", req.EntityID)
		return nil, fmt.Errorf("failed to save subsidiary account: %w", err)
	}

	after, _ := json.Marshal(sub)
	if err := s.auditSvc.Record(ctx, domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "subsidiary_accounts",
		RecordID:  sub.SubsidiaryID,
		Operation: domain.AuditCreate,
		After:     after,
		ActorID:   creatorID,
		At:        now,
	}); err != nil {
		s.LogWarn(ctx, "subsidiary created but audit record failed", "subsidiaryID", sub.SubsidiaryID)
	}

	s.LogInfo(ctx, "subsidiary account created", "subsidiaryID", sub.SubsidiaryID, "accountID", account.AccountID)
	return &sub, nil
}

func (s *subsidiaryService) GetSubsidiaryByID(ctx context.Context, subsidiaryID string) (*domain.SubsidiaryAccount, error) {
	sub, err := s.subsidiaryRepo.FindSubsidiaryByID(ctx, subsidiaryID)
	if err != nil {
		return nil, fmt.Errorf("subsidiary account %s: %w", subsidiaryID, err)
	}
	return sub, nil
}

func (s *subsidiaryService) ListSubsidiariesByAccount(ctx context.Context, accountID string) ([]domain.SubsidiaryAccount, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("main account %s: %w", accountID, err)
	}
	subs, err := s.subsidiaryRepo.ListSubsidiariesByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "failed to list subsidiary accounts", "accountID", accountID)
		return nil, fmt.Errorf("failed to list subsidiary accounts: %w", err)
	}
	return subs, nil
}

// GetSubsidiaryBalance returns the subsidiary's signed net balance. The sign
// convention comes from the owning main account's type.
func (s *subsidiaryService) GetSubsidiaryBalance(ctx context.Context, subsidiaryID string) (decimal.Decimal, error) {
	sub, err := s.subsidiaryRepo.FindSubsidiaryByID(ctx, subsidiaryID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("subsidiary account %s: %w", subsidiaryID, err)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, sub.AccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("main account %s: %w", sub.AccountID, err)
	}
	return sub.NetBalance(account.AccountType), nil
}

// CheckCreditLimit projects the subsidiary's balance after a proposed debit
// and compares it with the credit limit. Advisory: callers decide whether an
// exceeded limit blocks their workflow; the posting engine never consults it.
func (s *subsidiaryService) CheckCreditLimit(ctx context.Context, subsidiaryID string, proposedDebit decimal.Decimal) (*domain.CreditCheck, error) {
	if proposedDebit.IsNegative() {
		return nil, fmt.Errorf("proposed debit must be non-negative: %w", apperrors.ErrValidation)
	}

	sub, err := s.subsidiaryRepo.FindSubsidiaryByID(ctx, subsidiaryID)
	if err != nil {
		return nil, fmt.Errorf("subsidiary account %s: %w", subsidiaryID, err)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, sub.AccountID)
	if err != nil {
		return nil, fmt.Errorf("main account %s: %w", sub.AccountID, err)
	}

	delta := proposedDebit
	if account.AccountType.NormalSign() < 0 {
		delta = delta.Neg()
	}
	projected := sub.NetBalance(account.AccountType).Add(delta)

	check := &domain.CreditCheck{
		SubsidiaryID: subsidiaryID,
		Projected:    projected,
	}
	if sub.CreditLimit == nil {
		// No limit configured; never exceeded.
		return check, nil
	}

	check.Limit = *sub.CreditLimit
	check.Available = sub.CreditLimit.Sub(projected)
	check.Exceeded = projected.GreaterThan(*sub.CreditLimit)
	return check, nil
}
