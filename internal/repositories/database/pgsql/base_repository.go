package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes this layer translates into sentinel errors.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Rollback rolls back a transaction, ignoring the already-closed case so it
// can run in a defer after a successful commit.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		// Nothing the caller can do; the transaction is gone either way.
	}
}

// translatePgError maps low-level postgres failures onto the sentinel errors
// the service layer branches on. Unique violations become ErrDuplicate;
// serialization failures and deadlocks become ErrConcurrency so the posting
// engine can retry.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperrors.ErrDuplicate)
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("transaction aborted (%s): %w", pgErr.Code, apperrors.ErrConcurrency)
	}
	return err
}
