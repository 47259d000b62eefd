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

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	auditSvc    portssvc.AuditSvcFacade
	guard       *IntegrityGuard
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, auditSvc portssvc.AuditSvcFacade, guard *IntegrityGuard) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
		guard:       guard,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("invalid account type %q: %w", req.AccountType, apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		Code:               req.Code,
		Name:               req.Name,
		NameLocal:          req.NameLocal,
		AccountType:        req.AccountType,
		Description:        req.Description,
		DebitBalance:       decimal.Zero,
		CreditBalance:      decimal.Zero,
		AllowManualEntries: true,
		IsSystemAccount:    req.IsSystemAccount,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if req.AllowManualEntries != nil {
		account.AllowManualEntries = *req.AllowManualEntries
	}

	// Root accounts carry their own code as path; children extend the parent's.
	account.Path = account.Code
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("parent account %s: %w", *req.ParentAccountID, err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("parent account type %s does not match child type %s: %w",
				parent.AccountType, req.AccountType, apperrors.ErrValidation)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("parent account %s is inactive: %w", parent.Code, apperrors.ErrValidation)
		}
		account.ParentAccountID = parent.AccountID
		account.Path = parent.Path + "." + account.Code
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "failed to save account", "code", account.Code)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	after, _ := json.Marshal(account)
	if err := s.auditSvc.Record(ctx, domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "accounts",
		RecordID:  account.AccountID,
		Operation: domain.AuditCreate,
		After:     after,
		ActorID:   creatorID,
		At:        now,
	}); err != nil {
		s.LogWarn(ctx, "account created but audit record failed", "accountID", account.AccountID)
	}

	s.LogInfo(ctx, "account created", "accountID", account.AccountID, "code", account.Code)
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}

	before, _ := json.Marshal(account)
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.NameLocal != nil {
		account.NameLocal = *req.NameLocal
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.AllowManualEntries != nil {
		account.AllowManualEntries = *req.AllowManualEntries
	}
	now := time.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "failed to update account", "accountID", accountID)
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	after, _ := json.Marshal(account)
	if err := s.auditSvc.Record(ctx, domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "accounts",
		RecordID:  accountID,
		Operation: domain.AuditUpdate,
		Before:    before,
		After:     after,
		ActorID:   actorID,
		At:        now,
	}); err != nil {
		s.LogWarn(ctx, "account updated but audit record failed", "accountID", accountID)
	}

	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("account %s: %w", accountID, err)
	}
	if account.IsSystemAccount {
		posted, err := s.accountRepo.HasPostedLines(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to check posted activity for account %s: %w", accountID, err)
		}
		if posted {
			return fmt.Errorf("system account %s has posted activity and cannot be deactivated: %w",
				account.Code, apperrors.ErrConflict)
		}
	}
	if !account.NetBalance().IsZero() {
		return fmt.Errorf("account %s carries a balance of %s: %w",
			account.Code, account.NetBalance().String(), apperrors.ErrConflict)
	}

	children, err := s.accountRepo.ListChildAccounts(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to list children of account %s: %w", accountID, err)
	}
	for _, child := range children {
		if child.IsActive {
			return fmt.Errorf("account %s has active child %s: %w", account.Code, child.Code, apperrors.ErrConflict)
		}
	}

	before, _ := json.Marshal(account)
	now := time.Now()
	account.IsActive = false
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "failed to deactivate account", "accountID", accountID)
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	after, _ := json.Marshal(account)
	if err := s.auditSvc.Record(ctx, domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "accounts",
		RecordID:  accountID,
		Operation: domain.AuditDeactivate,
		Before:    before,
		After:     after,
		ActorID:   actorID,
		At:        now,
	}); err != nil {
		s.LogWarn(ctx, "account deactivated but audit record failed", "accountID", accountID)
	}

	s.LogInfo(ctx, "account deactivated", "accountID", accountID, "code", account.Code)
	return nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("account code %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	accounts, next, err := s.accountRepo.ListAccounts(ctx, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list accounts")
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, next, nil
}

// GetBalance returns the signed net balance. With a cutoff date the balance is
// recomputed from posted lines instead of the cached accumulators, so
// historical balances stay correct even after later postings.
func (s *accountService) GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, err)
	}
	if asOf == nil {
		return account.NetBalance(), nil
	}

	debit, credit, err := s.accountRepo.SumPostedLines(ctx, accountID, *asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance as of %s: %w", asOf.Format("2006-01-02"), err)
	}
	diff := debit.Sub(credit)
	if account.AccountType.NormalSign() < 0 {
		diff = diff.Neg()
	}
	return diff, nil
}

// GetRolledUpBalance sums the account's own balance with every descendant's.
// The tree is walked breadth-first; cycles cannot occur because parents are
// fixed at creation.
func (s *accountService) GetRolledUpBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, err)
	}

	total := account.NetBalance()
	queue := []string{account.AccountID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.accountRepo.ListChildAccounts(ctx, current)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to list children of account %s: %w", current, err)
		}
		for _, child := range children {
			total = total.Add(child.NetBalance())
			queue = append(queue, child.AccountID)
		}
	}
	return total, nil
}

// VerifyAccountIntegrity recomputes the account's accumulators from its posted
// lines and compares them to the cached values. On mismatch the account is
// placed on hold so the posting engine refuses further entries against it.
func (s *accountService) VerifyAccountIntegrity(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("account %s: %w", accountID, err)
	}

	debit, credit, err := s.accountRepo.SumPostedLines(ctx, accountID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to sum posted lines for account %s: %w", accountID, err)
	}

	if !debit.Equal(account.DebitBalance) || !credit.Equal(account.CreditBalance) {
		reason := fmt.Sprintf("cached debit/credit %s/%s, recomputed %s/%s",
			account.DebitBalance.String(), account.CreditBalance.String(), debit.String(), credit.String())
		s.guard.Hold(accountID, reason)
		s.LogError(ctx, apperrors.ErrIntegrity, "account balance mismatch, account placed on hold",
			"accountID", accountID, "code", account.Code, "detail", reason)
		return fmt.Errorf("account %s balance mismatch (%s): %w", account.Code, reason, apperrors.ErrIntegrity)
	}

	s.guard.Release(accountID)
	return nil
}
