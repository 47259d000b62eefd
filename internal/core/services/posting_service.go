package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/finbooks/ledger_core/internal/utils/accounting"
	"github.com/google/uuid"
)

// maxPostAttempts bounds retries when concurrent postings collide on account
// or sequence rows.
const maxPostAttempts = 3

// postingService is the single write path onto ledger balances. One posting is
// one database transaction: the entry, its lines, every balance mutation, the
// entry number and the audit event commit together or not at all.
type postingService struct {
	BaseService
	entryRepo      portsrepo.EntryRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
	subsidiaryRepo portsrepo.SubsidiaryRepositoryFacade
	periodRepo     portsrepo.PeriodRepository
	guard          *IntegrityGuard
}

// NewPostingService creates a new posting service.
func NewPostingService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	subsidiaryRepo portsrepo.SubsidiaryRepositoryFacade,
	periodRepo portsrepo.PeriodRepository,
	guard *IntegrityGuard,
) portssvc.PostingSvcFacade {
	return newPostingService(entryRepo, accountRepo, subsidiaryRepo, periodRepo, guard)
}

func newPostingService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	subsidiaryRepo portsrepo.SubsidiaryRepositoryFacade,
	periodRepo portsrepo.PeriodRepository,
	guard *IntegrityGuard,
) *postingService {
	return &postingService{
		entryRepo:      entryRepo,
		accountRepo:    accountRepo,
		subsidiaryRepo: subsidiaryRepo,
		periodRepo:     periodRepo,
		guard:          guard,
	}
}

func (s *postingService) SubmitEntry(ctx context.Context, req dto.SubmitEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	entry, lines, err := s.buildEntry(req, creatorID)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, entry, lines, nil, false, creatorID)
}

func (s *postingService) SaveDraft(ctx context.Context, req dto.SubmitEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	entry, lines, err := s.buildEntry(req, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveDraft(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "failed to save draft entry")
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	entry.Lines = lines
	s.LogInfo(ctx, "draft entry saved", "entryID", entry.EntryID)
	return &entry, nil
}

func (s *postingService) PostDraft(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("entry %s has status %s, only drafts can be posted: %w",
			entryID, entry.Status, apperrors.ErrConflict)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("lines of entry %s: %w", entryID, err)
	}

	return s.post(ctx, *entry, lines, nil, true, actorID)
}

func (s *postingService) DiscardDraft(ctx context.Context, entryID string, actorID string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("entry %s has status %s, only drafts can be discarded: %w",
			entryID, entry.Status, apperrors.ErrConflict)
	}

	if err := s.entryRepo.DeleteDraft(ctx, entryID); err != nil {
		s.LogError(ctx, err, "failed to discard draft", "entryID", entryID)
		return fmt.Errorf("failed to discard draft: %w", err)
	}

	s.LogInfo(ctx, "draft entry discarded", "entryID", entryID, "actorID", actorID)
	return nil
}

func (s *postingService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, err)
	}
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("lines of entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

func (s *postingService) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, next, err := s.entryRepo.ListEntries(ctx, status, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list entries")
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, next, nil
}

// buildEntry turns a request into an unposted entry and validates its shape:
// known source type, at least two one-sided lines, debits equal credits.
func (s *postingService) buildEntry(req dto.SubmitEntryRequest, creatorID string) (domain.JournalEntry, []domain.EntryLine, error) {
	if !req.SourceType.IsValid() {
		return domain.JournalEntry{}, nil, fmt.Errorf("invalid source type %q: %w", req.SourceType, apperrors.ErrValidation)
	}

	now := time.Now()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorID,
	}

	lines := make([]domain.EntryLine, len(req.Lines))
	for i, lr := range req.Lines {
		lines[i] = domain.EntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lr.AccountID,
			SubsidiaryID: lr.SubsidiaryID,
			DebitAmount:  lr.DebitAmount,
			CreditAmount: lr.CreditAmount,
			Memo:         lr.Memo,
			Detail:       lr.Detail,
			AuditFields:  audit,
		}
	}

	if err := accounting.ValidateEntryLines(lines); err != nil {
		return domain.JournalEntry{}, nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	totalDebit, totalCredit := accounting.SumLines(lines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		SourceType:  req.SourceType,
		Status:      domain.Draft,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: audit,
	}
	return entry, lines, nil
}

// post runs the full posting pipeline on a shape-valid entry: resolve the
// accounting period, check accounts and subsidiaries, compute balance deltas,
// and commit atomically with a bounded retry on concurrency collisions.
func (s *postingService) post(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine, markReversed *string, promoteDraft bool, actorID string) (*domain.JournalEntry, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, entry.EntryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no accounting period covers %s: %w",
				entry.EntryDate.Format("2006-01-02"), apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to resolve period for %s: %w", entry.EntryDate.Format("2006-01-02"), err)
	}
	if period.IsLocked() {
		return nil, fmt.Errorf("period %s is closed: %w", period.Code, apperrors.ErrConflict)
	}
	entry.PeriodID = period.PeriodID

	accountDeltas, subsidiaryDeltas, err := s.validateLines(ctx, entry.SourceType, lines)
	if err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.ReversesEntryID = nil
	if markReversed != nil {
		entry.ReversesEntryID = markReversed
	}

	afterJSON, _ := json.Marshal(entry)
	args := portsrepo.PostArgs{
		Entry:            entry,
		Lines:            lines,
		AccountDeltas:    accountDeltas,
		SubsidiaryDeltas: subsidiaryDeltas,
		Audit: domain.AuditEvent{
			EventID:   uuid.NewString(),
			Table:     "journal_entries",
			RecordID:  entry.EntryID,
			Operation: domain.AuditPost,
			After:     afterJSON,
			ActorID:   actorID,
			At:        time.Now(),
		},
		MarkReversedEntryID: markReversed,
		PromoteDraft:        promoteDraft,
	}
	if markReversed != nil {
		args.Audit.Operation = domain.AuditReverse
	}

	var entryNumber int64
	for attempt := 1; ; attempt++ {
		entryNumber, err = s.entryRepo.PostEntry(ctx, args)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrConcurrency) || attempt >= maxPostAttempts {
			s.LogError(ctx, err, "failed to post entry", "entryID", entry.EntryID, "attempt", attempt)
			return nil, fmt.Errorf("failed to post entry: %w", err)
		}
		s.LogWarn(ctx, "posting collided with concurrent transaction, retrying",
			"entryID", entry.EntryID, "attempt", attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}

	entry.EntryNumber = entryNumber
	entry.Lines = lines
	s.LogInfo(ctx, "entry posted",
		"entryID", entry.EntryID, "entryNumber", entryNumber, "periodID", entry.PeriodID)
	return &entry, nil
}

// validateLines checks every referenced account and subsidiary and folds the
// line amounts into per-target balance deltas.
func (s *postingService) validateLines(ctx context.Context, sourceType domain.SourceType, lines []domain.EntryLine) (map[string]domain.BalanceDelta, map[string]domain.BalanceDelta, error) {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	var subsidiaryIDs []string
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
		if line.SubsidiaryID != nil {
			subsidiaryIDs = append(subsidiaryIDs, *line.SubsidiaryID)
		}
	}

	if heldID, reason, held := s.guard.AnyHeld(accountIDs); held {
		return nil, nil, fmt.Errorf("account %s is on integrity hold (%s): %w", heldID, reason, apperrors.ErrIntegrity)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	var subsidiaries map[string]domain.SubsidiaryAccount
	if len(subsidiaryIDs) > 0 {
		subsidiaries, err = s.subsidiaryRepo.FindSubsidiariesByIDs(ctx, subsidiaryIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load subsidiary accounts: %w", err)
		}
	}

	accountDeltas := make(map[string]domain.BalanceDelta, len(accountIDs))
	subsidiaryDeltas := make(map[string]domain.BalanceDelta, len(subsidiaryIDs))
	for _, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, nil, fmt.Errorf("account %s not found: %w", line.AccountID, apperrors.ErrValidation)
		}
		if !account.IsActive {
			return nil, nil, fmt.Errorf("account %s is inactive: %w", account.Code, apperrors.ErrValidation)
		}
		if sourceType == domain.SourceManual && !account.AllowManualEntries {
			return nil, nil, fmt.Errorf("account %s does not accept manual entries: %w", account.Code, apperrors.ErrValidation)
		}

		delta := domain.BalanceDelta{Debit: line.DebitAmount, Credit: line.CreditAmount}
		accountDeltas[line.AccountID] = accountDeltas[line.AccountID].Add(delta)

		if line.SubsidiaryID != nil {
			sub, ok := subsidiaries[*line.SubsidiaryID]
			if !ok {
				return nil, nil, fmt.Errorf("subsidiary account %s not found: %w", *line.SubsidiaryID, apperrors.ErrValidation)
			}
			if sub.AccountID != line.AccountID {
				return nil, nil, fmt.Errorf("subsidiary %s belongs to account %s, not %s: %w",
					sub.SubsidiaryID, sub.AccountID, line.AccountID, apperrors.ErrValidation)
			}
			if !sub.IsActive {
				return nil, nil, fmt.Errorf("subsidiary account %s is inactive: %w", sub.SubsidiaryID, apperrors.ErrValidation)
			}
			subsidiaryDeltas[*line.SubsidiaryID] = subsidiaryDeltas[*line.SubsidiaryID].Add(delta)
		}
	}

	return accountDeltas, subsidiaryDeltas, nil
}
