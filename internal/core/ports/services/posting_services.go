package services

import (
	"context"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/finbooks/ledger_core/internal/dto"
)

// PostingSvcFacade is the posting engine: the single write path onto ledger
// balances. Every posted entry is validated, stamped with a period and entry
// number, and applied atomically.
type PostingSvcFacade interface {
	// SubmitEntry validates a candidate entry and posts it immediately.
	SubmitEntry(ctx context.Context, req dto.SubmitEntryRequest, creatorID string) (*domain.JournalEntry, error)

	// SaveDraft validates the shape of a candidate entry and stores it as a
	// DRAFT without moving any balances or consuming an entry number.
	SaveDraft(ctx context.Context, req dto.SubmitEntryRequest, creatorID string) (*domain.JournalEntry, error)

	// PostDraft promotes a stored draft through the full posting pipeline.
	PostDraft(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)

	// DiscardDraft deletes a draft entry. Posted entries cannot be discarded.
	DiscardDraft(ctx context.Context, entryID string, actorID string) error

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries newest-first, optionally filtered by status.
	ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// ReversalSvcFacade is the reversal engine. A reversal is itself a posted
// entry; the original is never mutated beyond its status link.
type ReversalSvcFacade interface {
	// ReverseEntry posts a mirror-image entry for a POSTED original, links the
	// two, and marks the original REVERSED. The reversal is dated today and
	// lands in the current open period, so reversing into a locked period is
	// impossible by construction.
	ReverseEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error)
}
