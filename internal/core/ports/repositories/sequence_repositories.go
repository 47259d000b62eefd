package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SequenceRepository hands out journal entry numbers. Numbers are monotonic
// and never reused within a fiscal year; the implementation serializes
// concurrent callers on the sequence row itself.
type SequenceRepository interface {
	// NextEntryNumber increments and returns the counter for the fiscal year
	// inside the caller's transaction, so an aborted posting never burns a
	// committed number out of order with its entry.
	NextEntryNumber(ctx context.Context, tx pgx.Tx, fiscalYear int) (int64, error)
}
