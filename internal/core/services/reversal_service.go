package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/google/uuid"
)

// reversalService posts mirror-image entries for posted originals. It shares
// the posting pipeline so a reversal obeys every posting invariant: balanced,
// period-checked, numbered and atomic.
type reversalService struct {
	BaseService
	entryRepo portsrepo.EntryRepositoryFacade
	posting   *postingService
}

// NewReversalService creates a new reversal service.
func NewReversalService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	subsidiaryRepo portsrepo.SubsidiaryRepositoryFacade,
	periodRepo portsrepo.PeriodRepository,
	guard *IntegrityGuard,
) portssvc.ReversalSvcFacade {
	return &reversalService{
		entryRepo: entryRepo,
		posting:   newPostingService(entryRepo, accountRepo, subsidiaryRepo, periodRepo, guard),
	}
}

func (s *reversalService) ReverseEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	if reason == "" {
		return nil, fmt.Errorf("reversal reason is required: %w", apperrors.ErrValidation)
	}

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, err)
	}
	switch original.Status {
	case domain.Posted:
		// Reversible.
	case domain.Reversed:
		return nil, fmt.Errorf("entry %s is already reversed: %w", entryID, apperrors.ErrConflict)
	default:
		return nil, fmt.Errorf("entry %s has status %s, only posted entries can be reversed: %w",
			entryID, original.Status, apperrors.ErrConflict)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("lines of entry %s: %w", entryID, err)
	}

	// The reversal is dated today and lands in the current open period, so a
	// locked original period never blocks it and never gets written into.
	now := time.Now()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	lines := make([]domain.EntryLine, len(originalLines))
	for i, ol := range originalLines {
		lines[i] = domain.EntryLine{
			LineID:       uuid.NewString(),
			EntryID:      reversalID,
			AccountID:    ol.AccountID,
			SubsidiaryID: ol.SubsidiaryID,
			DebitAmount:  ol.CreditAmount, // Sides swapped
			CreditAmount: ol.DebitAmount,
			Memo:         ol.Memo,
			Detail:       ol.Detail,
			AuditFields:  audit,
		}
	}

	entry := domain.JournalEntry{
		EntryID:     reversalID,
		EntryDate:   now,
		Description: fmt.Sprintf("Reversal of entry %d: %s", original.EntryNumber, reason),
		SourceType:  domain.SourceAdjustment,
		Status:      domain.Draft,
		TotalDebit:  original.TotalCredit,
		TotalCredit: original.TotalDebit,
		AuditFields: audit,
	}

	reversal, err := s.posting.post(ctx, entry, lines, &original.EntryID, false, actorID)
	if err != nil {
		s.LogError(ctx, err, "failed to post reversal", "originalEntryID", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "entry reversed",
		"originalEntryID", entryID, "reversalEntryID", reversal.EntryID, "reason", reason)
	return reversal, nil
}
