package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SubsidiaryReader defines read operations for subsidiary ledger data.
type SubsidiaryReader interface {
	// FindSubsidiaryByID retrieves a single subsidiary account.
	FindSubsidiaryByID(ctx context.Context, subsidiaryID string) (*domain.SubsidiaryAccount, error)

	// FindSubsidiariesByIDs retrieves multiple subsidiary accounts keyed by ID.
	FindSubsidiariesByIDs(ctx context.Context, subsidiaryIDs []string) (map[string]domain.SubsidiaryAccount, error)

	// ListSubsidiariesByAccount retrieves the subsidiaries under a main account.
	ListSubsidiariesByAccount(ctx context.Context, accountID string) ([]domain.SubsidiaryAccount, error)
}

// SubsidiaryWriter defines write operations for subsidiary ledger data.
type SubsidiaryWriter interface {
	// SaveSubsidiary inserts a new subsidiary account.
	SaveSubsidiary(ctx context.Context, sub domain.SubsidiaryAccount) error
}

// SubsidiaryTxOps are balance operations that run inside a posting transaction.
type SubsidiaryTxOps interface {
	// FindSubsidiariesByIDsForUpdate locks the subsidiary rows in sorted ID order.
	FindSubsidiariesByIDsForUpdate(ctx context.Context, tx pgx.Tx, subsidiaryIDs []string) (map[string]domain.SubsidiaryAccount, error)

	// ApplySubsidiaryDeltasInTx adds raw debit/credit deltas to the locked rows.
	ApplySubsidiaryDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]domain.BalanceDelta, actorID string, at time.Time) error
}

// SubsidiaryRepositoryFacade combines all subsidiary repository interfaces.
type SubsidiaryRepositoryFacade interface {
	SubsidiaryReader
	SubsidiaryWriter
	SubsidiaryTxOps
}
