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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReversalServiceTestSuite struct {
	suite.Suite
	mockEntryRepo      *MockEntryRepository
	mockAccountRepo    *MockAccountRepository
	mockSubsidiaryRepo *MockSubsidiaryRepository
	mockPeriodRepo     *MockPeriodRepository
	service            portssvc.ReversalSvcFacade

	cashAccount    domain.Account
	revenueAccount domain.Account
	original       domain.JournalEntry
	originalLines  []domain.EntryLine
	currentPeriod  domain.AccountingPeriod
	actorID        string
}

func (suite *ReversalServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSubsidiaryRepo = new(MockSubsidiaryRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewReversalService(
		suite.mockEntryRepo, suite.mockAccountRepo, suite.mockSubsidiaryRepo, suite.mockPeriodRepo,
		services.NewIntegrityGuard())

	suite.actorID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:          uuid.NewString(),
		Code:               "1000",
		AccountType:        domain.Asset,
		AllowManualEntries: true,
		IsActive:           true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:          uuid.NewString(),
		Code:               "4000",
		AccountType:        domain.Revenue,
		AllowManualEntries: true,
		IsActive:           true,
	}

	suite.original = domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: 17,
		EntryDate:   time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		Description: "Cash sale",
		SourceType:  domain.SourceInvoice,
		Status:      domain.Posted,
		TotalDebit:  decimal.NewFromInt(250),
		TotalCredit: decimal.NewFromInt(250),
	}
	suite.originalLines = []domain.EntryLine{
		{LineID: uuid.NewString(), EntryID: suite.original.EntryID, AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(250), Memo: "cash in"},
		{LineID: uuid.NewString(), EntryID: suite.original.EntryID, AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(250), Memo: "sale"},
	}

	// Reversals are dated today; the current period must cover now.
	now := time.Now()
	suite.currentPeriod = domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		Code:      now.Format("2006-01"),
		StartDate: now.AddDate(0, 0, -15),
		EndDate:   now.AddDate(0, 0, 15),
		Status:    domain.PeriodOpen,
	}
}

func (suite *ReversalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()

	suite.mockEntryRepo.On("FindEntryByID", ctx, suite.original.EntryID).Return(&suite.original, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", ctx, suite.original.EntryID).Return(suite.originalLines, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, mock.AnythingOfType("time.Time")).Return(&suite.currentPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}, nil).Once()
	suite.mockEntryRepo.On("PostEntry", ctx, mock.MatchedBy(func(args portsrepo.PostArgs) bool {
		if args.MarkReversedEntryID == nil || *args.MarkReversedEntryID != suite.original.EntryID {
			return false
		}
		if args.Audit.Operation != domain.AuditReverse {
			return false
		}
		// Mirror lines: sides swapped, amounts preserved.
		for i, line := range args.Lines {
			if !line.DebitAmount.Equal(suite.originalLines[i].CreditAmount) ||
				!line.CreditAmount.Equal(suite.originalLines[i].DebitAmount) {
				return false
			}
		}
		return true
	})).Return(int64(18), nil).Once()

	reversal, err := suite.service.ReverseEntry(ctx, suite.original.EntryID, "duplicate invoice", suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(int64(18), reversal.EntryNumber)
	suite.Equal(domain.SourceAdjustment, reversal.SourceType)
	suite.Require().NotNil(reversal.ReversesEntryID)
	suite.Equal(suite.original.EntryID, *reversal.ReversesEntryID)
	suite.Contains(reversal.Description, "duplicate invoice")
	suite.True(reversal.IsBalanced())
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestReverseEntry_ReasonRequired() {
	ctx := context.Background()

	_, err := suite.service.ReverseEntry(ctx, suite.original.EntryID, "", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *ReversalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	reversed := suite.original
	reversed.Status = domain.Reversed

	suite.mockEntryRepo.On("FindEntryByID", ctx, reversed.EntryID).Return(&reversed, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, reversed.EntryID, "oops", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything)
}

func (suite *ReversalServiceTestSuite) TestReverseEntry_DraftNotReversible() {
	ctx := context.Background()
	draft := suite.original
	draft.Status = domain.Draft

	suite.mockEntryRepo.On("FindEntryByID", ctx, draft.EntryID).Return(&draft, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, draft.EntryID, "never posted", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ReversalServiceTestSuite) TestReverseEntry_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockEntryRepo.On("FindEntryByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReverseEntry(ctx, missingID, "reason", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReversalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReversalServiceTestSuite))
}
