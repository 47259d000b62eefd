package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves a journal entry without its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of one entry in deterministic order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error)

	// ListEntries retrieves entries ordered by date descending using token
	// pagination, optionally filtered by status.
	ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountDraftEntriesInPeriod counts DRAFT entries dated inside the window.
	// Consulted by the period close operation.
	CountDraftEntriesInPeriod(ctx context.Context, start, end time.Time) (int, error)
}

// PostArgs bundles everything one posting commit must apply atomically:
// the entry row, its lines, the raw balance deltas for accounts and
// subsidiaries, and the audit event. The repository assigns the entry number
// from the fiscal-year sequence inside the same transaction and returns it.
type PostArgs struct {
	Entry            domain.JournalEntry
	Lines            []domain.EntryLine
	AccountDeltas    map[string]domain.BalanceDelta
	SubsidiaryDeltas map[string]domain.BalanceDelta
	Audit            domain.AuditEvent

	// MarkReversedEntryID, when set, flips the referenced original entry to
	// REVERSED and links it to the new entry in the same transaction. Used by
	// the reversal engine.
	MarkReversedEntryID *string

	// PromoteDraft indicates the entry and its lines already exist as a DRAFT;
	// the repository updates them in place instead of inserting.
	PromoteDraft bool
}

// EntryWriter defines write operations for journal entry data.
type EntryWriter interface {
	// SaveDraft persists a DRAFT entry and its lines. No balances move.
	SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error

	// DeleteDraft removes a draft entry and its lines. Posted entries are
	// immutable and cannot be deleted.
	DeleteDraft(ctx context.Context, entryID string) error

	// PostEntry commits a posting atomically and returns the assigned entry
	// number. Any failure leaves no side effects.
	PostEntry(ctx context.Context, args PostArgs) (int64, error)
}

// EntryRepositoryFacade combines all journal entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
