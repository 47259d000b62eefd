package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for entry number sequences.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextEntryNumber increments the per-fiscal-year counter and returns the new
// value. The upsert takes a row lock on the counter, so concurrent postings in
// the same fiscal year serialize here and numbers come out gapless in commit
// order; a rolled-back posting releases its number with the lock.
func (r *PgxSequenceRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, fiscalYear int) (int64, error) {
	query := `
		INSERT INTO entry_sequences (fiscal_year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (fiscal_year)
		DO UPDATE SET last_number = entry_sequences.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := tx.QueryRow(ctx, query, fiscalYear).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to advance entry sequence for fiscal year %d: %w", fiscalYear, translatePgError(err))
	}
	return number, nil
}
