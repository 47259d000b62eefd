package services

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations over the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a single account by its identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves a single account by its chart code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts ordered by code using token pagination.
	ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error)

	// GetBalance returns the signed net balance of an account. A nil asOf means
	// the current cached balance; otherwise the balance is recomputed from
	// posted lines up to the cutoff.
	GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// GetRolledUpBalance returns the signed balance of an account including all
	// descendants of the same type.
	GetRolledUpBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines mutations on the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount creates a new account, wiring it under its parent when one
	// is given. The parent must share the account type.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)

	// UpdateAccount updates the mutable descriptive fields of an account.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeactivateAccount retires an account from further posting. Fails when the
	// account carries a nonzero balance or has active children.
	DeactivateAccount(ctx context.Context, accountID string, actorID string) error
}

// AccountIntegritySvc verifies cached balances against the posted lines that
// produced them.
type AccountIntegritySvc interface {
	// VerifyAccountIntegrity recomputes the account balance from posted lines
	// and compares it with the cached accumulators. A mismatch places the
	// account on hold and returns apperrors.ErrIntegrity.
	VerifyAccountIntegrity(ctx context.Context, accountID string) error
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountIntegritySvc
}
