package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves a single account by its chart code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
	// simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code using token pagination.
	ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error)

	// ListChildAccounts retrieves the direct children of an account, ordered by code.
	ListChildAccounts(ctx context.Context, accountID string) ([]domain.Account, error)

	// HasPostedLines reports whether any posted entry line references the account.
	HasPostedLines(ctx context.Context, accountID string) (bool, error)

	// SumPostedLines aggregates posted debit/credit line amounts against the
	// account up to and including the cutoff date. Used for "as of" balances
	// and integrity verification.
	SumPostedLines(ctx context.Context, accountID string, asOf time.Time) (debit, credit decimal.Decimal, err error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate when the
	// code is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields (name, description, flags).
	// Balances are not touched here.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountTxOps are balance operations that run inside a posting transaction.
// They exist so the entry repository can lock and mutate accounts atomically
// with the entry insert.
type AccountTxOps interface {
	// FindAccountsByIDsForUpdate locks the account rows (sorted by ID to keep
	// lock order deterministic) and returns their current state.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltasInTx adds raw debit/credit deltas to the locked accounts.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]domain.BalanceDelta, actorID string, at time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTxOps
}
