package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// periodService manages accounting periods and the close/reopen lifecycle.
type periodService struct {
	BaseService
	periodRepo    portsrepo.PeriodRepository
	entryRepo     portsrepo.EntryReader
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	postingSvc    portssvc.PostingSvcFacade
	reversalSvc   portssvc.ReversalSvcFacade
	auditSvc      portssvc.AuditSvcFacade
}

// NewPeriodService creates a new period service.
func NewPeriodService(
	periodRepo portsrepo.PeriodRepository,
	entryRepo portsrepo.EntryReader,
	reportingRepo portsrepo.ReportingRepository,
	accountRepo portsrepo.AccountReader,
	postingSvc portssvc.PostingSvcFacade,
	reversalSvc portssvc.ReversalSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:    periodRepo,
		entryRepo:     entryRepo,
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		postingSvc:    postingSvc,
		reversalSvc:   reversalSvc,
		auditSvc:      auditSvc,
	}
}

func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, creatorID string) (*domain.AccountingPeriod, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("period end %s must be after start %s: %w",
			req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"), apperrors.ErrValidation)
	}

	overlap, err := s.periodRepo.FindOverlappingPeriod(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	}
	if overlap != nil {
		return nil, fmt.Errorf("period window overlaps existing period %s: %w", overlap.Code, apperrors.ErrConflict)
	}

	now := time.Now()
	period := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Code:      req.Code,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "failed to save period", "code", req.Code)
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	after, _ := json.Marshal(period)
	if err := s.auditSvc.Record(ctx, domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "accounting_periods",
		RecordID:  period.PeriodID,
		Operation: domain.AuditCreate,
		After:     after,
		ActorID:   creatorID,
		At:        now,
	}); err != nil {
		s.LogWarn(ctx, "period created but audit record failed", "periodID", period.PeriodID)
	}

	s.LogInfo(ctx, "period created", "periodID", period.PeriodID, "code", period.Code)
	return &period, nil
}

func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("period %s: %w", periodID, err)
	}
	return period, nil
}

func (s *periodService) GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("period for %s: %w", date.Format("2006-01-02"), err)
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, limit int, nextToken *string) ([]domain.AccountingPeriod, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	periods, next, err := s.periodRepo.ListPeriods(ctx, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list periods")
		return nil, nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, next, nil
}

// ClosePeriod locks a period against further posting. Draft entries dated
// inside the window must be posted or discarded first. When requested, a
// closing entry zeroing the period's revenue and expense activity into
// retained earnings is posted before the lock lands.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, actorID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("period %s: %w", periodID, err)
	}
	if period.Status != domain.PeriodOpen {
		return nil, fmt.Errorf("period %s has status %s, only open periods can be closed: %w",
			period.Code, period.Status, apperrors.ErrConflict)
	}

	drafts, err := s.entryRepo.CountDraftEntriesInPeriod(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft entries in period %s: %w", period.Code, err)
	}
	if drafts > 0 {
		return nil, fmt.Errorf("period %s has %d unposted draft entries: %w", period.Code, drafts, apperrors.ErrConflict)
	}

	before, _ := json.Marshal(period)

	if req.GenerateClosingEntry {
		closingEntryID, err := s.postClosingEntry(ctx, period, req.RetainedEarningsAccount, actorID)
		if err != nil {
			return nil, err
		}
		period.ClosingEntryID = closingEntryID
	}

	now := time.Now()
	period.Status = domain.PeriodClosed
	period.LockedAt = &now
	period.LockedBy = &actorID
	period.LockReason = req.Reason
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	after, _ := json.Marshal(period)
	audit := domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "accounting_periods",
		RecordID:  period.PeriodID,
		Operation: domain.AuditClose,
		Before:    before,
		After:     after,
		ActorID:   actorID,
		At:        now,
	}
	if err := s.periodRepo.UpdatePeriodStatus(ctx, *period, audit); err != nil {
		s.LogError(ctx, err, "failed to close period", "periodID", periodID)
		return nil, fmt.Errorf("failed to close period: %w", err)
	}

	s.LogInfo(ctx, "period closed", "periodID", periodID, "code", period.Code)
	return period, nil
}

// ReopenPeriod unlocks a closed period. The closing entry, if one was posted,
// is reversed first so the reopened period's revenue and expense accounts carry
// their pre-close balances again.
func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, reason string, actorID string) (*domain.AccountingPeriod, error) {
	if reason == "" {
		return nil, fmt.Errorf("reopen reason is required: %w", apperrors.ErrValidation)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("period %s: %w", periodID, err)
	}
	if period.Status != domain.PeriodClosed {
		return nil, fmt.Errorf("period %s has status %s, only closed periods can be reopened: %w",
			period.Code, period.Status, apperrors.ErrConflict)
	}

	before, _ := json.Marshal(period)

	if period.ClosingEntryID != nil {
		if _, err := s.reversalSvc.ReverseEntry(ctx, *period.ClosingEntryID,
			fmt.Sprintf("period %s reopened: %s", period.Code, reason), actorID); err != nil {
			return nil, fmt.Errorf("failed to reverse closing entry of period %s: %w", period.Code, err)
		}
	}

	now := time.Now()
	period.Status = domain.PeriodOpen
	period.LockedAt = nil
	period.LockedBy = nil
	period.LockReason = ""
	period.ClosingEntryID = nil
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	after, _ := json.Marshal(period)
	audit := domain.AuditEvent{
		EventID:   uuid.NewString(),
		Table:     "accounting_periods",
		RecordID:  period.PeriodID,
		Operation: domain.AuditReopen,
		Before:    before,
		After:     after,
		ActorID:   actorID,
		At:        now,
	}
	if err := s.periodRepo.UpdatePeriodStatus(ctx, *period, audit); err != nil {
		s.LogError(ctx, err, "failed to reopen period", "periodID", periodID)
		return nil, fmt.Errorf("failed to reopen period: %w", err)
	}

	s.LogInfo(ctx, "period reopened", "periodID", periodID, "code", period.Code, "reason", reason)
	return period, nil
}

// postClosingEntry nets the period's revenue and expense activity into
// retained earnings. Returns nil without posting when the period saw no
// revenue or expense activity.
func (s *periodService) postClosingEntry(ctx context.Context, period *domain.AccountingPeriod, retainedEarningsCode string, actorID string) (*string, error) {
	if retainedEarningsCode == "" {
		return nil, fmt.Errorf("retained earnings account code is required to generate a closing entry: %w", apperrors.ErrValidation)
	}

	retained, err := s.accountRepo.FindAccountByCode(ctx, retainedEarningsCode)
	if err != nil {
		return nil, fmt.Errorf("retained earnings account %s: %w", retainedEarningsCode, err)
	}
	if retained.AccountType != domain.Equity {
		return nil, fmt.Errorf("retained earnings account %s must be an equity account, got %s: %w",
			retainedEarningsCode, retained.AccountType, apperrors.ErrValidation)
	}

	activity, err := s.reportingRepo.GetAccountActivity(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for period %s: %w", period.Code, err)
	}

	detail := &domain.LineDetail{
		Kind:    domain.DetailClosing,
		Closing: &domain.ClosingDetail{PeriodCode: period.Code},
	}

	// Zero out each revenue/expense account on the side opposite its period
	// activity; the retained earnings line absorbs the net income.
	var lines []dto.EntryLineRequest
	netIncome := decimal.Zero
	for _, act := range activity {
		if act.AccountType != domain.Revenue && act.AccountType != domain.Expense {
			continue
		}
		net := act.Credit.Sub(act.Debit) // Positive means a credit-side balance
		if net.IsZero() {
			continue
		}
		line := dto.EntryLineRequest{
			AccountID: act.AccountID,
			Memo:      fmt.Sprintf("Close %s for period %s", act.Code, period.Code),
			Detail:    detail,
		}
		if net.IsPositive() {
			line.DebitAmount = net
		} else {
			line.CreditAmount = net.Neg()
		}
		lines = append(lines, line)
		netIncome = netIncome.Add(net)
	}

	if len(lines) == 0 {
		s.LogInfo(ctx, "no revenue or expense activity to close", "periodID", period.PeriodID)
		return nil, nil
	}

	retainedLine := dto.EntryLineRequest{
		AccountID: retained.AccountID,
		Memo:      fmt.Sprintf("Net income for period %s", period.Code),
		Detail:    detail,
	}
	if netIncome.IsPositive() {
		retainedLine.CreditAmount = netIncome
	} else if netIncome.IsNegative() {
		retainedLine.DebitAmount = netIncome.Neg()
	}
	if !netIncome.IsZero() {
		lines = append(lines, retainedLine)
	}

	closing, err := s.postingSvc.SubmitEntry(ctx, dto.SubmitEntryRequest{
		EntryDate:   period.EndDate,
		Description: fmt.Sprintf("Closing entry for period %s", period.Code),
		SourceType:  domain.SourceClosing,
		Lines:       lines,
	}, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to post closing entry for period %s: %w", period.Code, err)
	}

	s.LogInfo(ctx, "closing entry posted",
		"periodID", period.PeriodID, "entryID", closing.EntryID, "netIncome", netIncome.String())
	return &closing.EntryID, nil
}
