package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/core/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockEntryRepo      *MockEntryRepository
	mockAccountRepo    *MockAccountRepository
	mockSubsidiaryRepo *MockSubsidiaryRepository
	mockPeriodRepo     *MockPeriodRepository
	guard              *services.IntegrityGuard
	service            portssvc.PostingSvcFacade

	cashAccount    domain.Account
	revenueAccount domain.Account
	openPeriod     domain.AccountingPeriod
	actorID        string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSubsidiaryRepo = new(MockSubsidiaryRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.guard = services.NewIntegrityGuard()
	suite.service = services.NewPostingService(
		suite.mockEntryRepo, suite.mockAccountRepo, suite.mockSubsidiaryRepo, suite.mockPeriodRepo, suite.guard)

	suite.actorID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:          uuid.NewString(),
		Code:               "1000",
		Name:               "Cash",
		AccountType:        domain.Asset,
		AllowManualEntries: true,
		IsActive:           true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:          uuid.NewString(),
		Code:               "4000",
		Name:               "Sales revenue",
		AccountType:        domain.Revenue,
		AllowManualEntries: true,
		IsActive:           true,
	}
	suite.openPeriod = domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Code:      "2026-08",
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodOpen,
	}
}

func (suite *PostingServiceTestSuite) balancedRequest() dto.SubmitEntryRequest {
	return dto.SubmitEntryRequest{
		EntryDate:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		SourceType:  domain.SourceManual,
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

func (suite *PostingServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.MatchedBy(func(args portsrepo.PostArgs) bool {
		return args.Entry.Status == domain.Posted &&
			args.Entry.PeriodID == suite.openPeriod.PeriodID &&
			args.MarkReversedEntryID == nil &&
			!args.PromoteDraft &&
			args.Audit.Operation == domain.AuditPost
	})).Return(int64(42), nil).Once()

	entry, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(int64(42), entry.EntryNumber)
	suite.Equal(domain.Posted, entry.Status)
	suite.True(entry.IsBalanced())
	suite.Len(entry.Lines, 2)
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].CreditAmount = decimal.NewFromInt(99)

	entry, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_SingleLine() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_TwoSidedLine() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].CreditAmount = decimal.NewFromInt(100)
	req.Lines[0].DebitAmount = decimal.NewFromInt(100)

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_PeriodClosedWhilePosting() {
	ctx := context.Background()
	req := suite.balancedRequest()

	// The period read OPEN up front can be closed by the time the posting
	// transaction takes its share lock. That conflict is final, not retried.
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("repositories.PostArgs")).
		Return(int64(0), apperrors.ErrConflict).Once()

	entry, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNumberOfCalls(suite.T(), "PostEntry", 1)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_NoPeriod() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_ClosedPeriod() {
	ctx := context.Background()
	req := suite.balancedRequest()
	closed := suite.openPeriod
	closed.Status = domain.PeriodClosed

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&closed, nil).Once()

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	inactive := suite.revenueAccount
	inactive.IsActive = false
	accounts := suite.accountsMap()
	accounts[inactive.AccountID] = inactive

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_ManualEntriesBlocked() {
	ctx := context.Background()
	req := suite.balancedRequest()
	controlled := suite.cashAccount
	controlled.AllowManualEntries = false
	accounts := suite.accountsMap()
	accounts[controlled.AccountID] = controlled

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_SystemSourceBypassesManualRestriction() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.SourceType = domain.SourceInvoice
	controlled := suite.cashAccount
	controlled.AllowManualEntries = false
	accounts := suite.accountsMap()
	accounts[controlled.AccountID] = controlled

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("repositories.PostArgs")).Return(int64(7), nil).Once()

	entry, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(7), entry.EntryNumber)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_AccountOnIntegrityHold() {
	ctx := context.Background()
	req := suite.balancedRequest()
	suite.guard.Hold(suite.cashAccount.AccountID, "balance mismatch")

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_RetriesOnConcurrencyConflict() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("repositories.PostArgs")).
		Return(int64(0), apperrors.ErrConcurrency).Twice()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("repositories.PostArgs")).
		Return(int64(9), nil).Once()

	entry, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(9), entry.EntryNumber)
	suite.mockEntryRepo.AssertNumberOfCalls(suite.T(), "PostEntry", 3)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_GivesUpAfterMaxAttempts() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.AnythingOfType("repositories.PostArgs")).
		Return(int64(0), apperrors.ErrConcurrency).Times(3)

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
	suite.mockEntryRepo.AssertNumberOfCalls(suite.T(), "PostEntry", 3)
}

func (suite *PostingServiceTestSuite) TestSubmitEntry_SubsidiaryMustBelongToAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	subID := uuid.NewString()
	req.Lines[0].SubsidiaryID = &subID

	sub := domain.SubsidiaryAccount{
		SubsidiaryID: subID,
		AccountID:    uuid.NewString(), // Different main account
		IsActive:     true,
	}

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, req.EntryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockSubsidiaryRepo.On("FindSubsidiariesByIDs", ctx, []string{subID}).
		Return(map[string]domain.SubsidiaryAccount{subID: sub}, nil).Once()

	_, err := suite.service.SubmitEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestSaveDraft_NoBalancesMove() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockEntryRepo.On("SaveDraft", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.EntryLine")).
		Return(nil).Once()

	entry, err := suite.service.SaveDraft(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Zero(entry.EntryNumber)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "FindPeriodForDate", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestSaveDraft_StillValidatesShape() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].CreditAmount = decimal.NewFromInt(50)

	_, err := suite.service.SaveDraft(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostDraft_Success() {
	ctx := context.Background()
	entryDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	draft := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   entryDate,
		Description: "Draft sale",
		SourceType:  domain.SourceManual,
		Status:      domain.Draft,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
	}
	lines := []domain.EntryLine{
		{LineID: uuid.NewString(), EntryID: draft.EntryID, AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), EntryID: draft.EntryID, AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
	}

	suite.mockEntryRepo.On("FindEntryByID", ctx, draft.EntryID).Return(&draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, draft.EntryID).Return(lines, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, entryDate).Return(&suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.MatchedBy(func(args portsrepo.PostArgs) bool {
		return args.PromoteDraft && args.Entry.EntryID == draft.EntryID
	})).Return(int64(11), nil).Once()

	entry, err := suite.service.PostDraft(ctx, draft.EntryID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(int64(11), entry.EntryNumber)
	suite.Equal(domain.Posted, entry.Status)
}

func (suite *PostingServiceTestSuite) TestPostDraft_AlreadyPosted() {
	ctx := context.Background()
	posted := domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	suite.mockEntryRepo.On("FindEntryByID", ctx, posted.EntryID).Return(&posted, nil).Once()

	_, err := suite.service.PostDraft(ctx, posted.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestDiscardDraft_Success() {
	ctx := context.Background()
	draft := domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Draft}

	suite.mockEntryRepo.On("FindEntryByID", ctx, draft.EntryID).Return(&draft, nil).Once()
	suite.mockEntryRepo.On("DeleteDraft", ctx, draft.EntryID).Return(nil).Once()

	err := suite.service.DiscardDraft(ctx, draft.EntryID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestDiscardDraft_PostedEntryImmutable() {
	ctx := context.Background()
	posted := domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	suite.mockEntryRepo.On("FindEntryByID", ctx, posted.EntryID).Return(&posted, nil).Once()

	err := suite.service.DiscardDraft(ctx, posted.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "DeleteDraft", mock.Anything, mock.Anything)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
