package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
	"github.com/finbooks/ledger_core/internal/core/services"
	"github.com/finbooks/ledger_core/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockAuditSvc    *MockAuditService
	guard           *services.IntegrityGuard
	service         portssvc.AccountSvcFacade
	actorID         string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuditSvc = new(MockAuditService)
	suite.guard = services.NewIntegrityGuard()
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockAuditSvc, suite.guard)
	suite.actorID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Root() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAuditSvc.On("Record", ctx, mock.MatchedBy(func(e domain.AuditEvent) bool {
		return e.Table == "accounts" && e.Operation == domain.AuditCreate
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("1000", account.Code)
	suite.Equal("1000", account.Path)
	suite.True(account.IsActive)
	suite.True(account.AllowManualEntries)
	suite.True(account.NetBalance().IsZero())
	suite.Equal(suite.actorID, account.CreatedBy)
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ChildExtendsParentPath() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		Path:        "1000",
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "1100",
		Name:            "Bank",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAuditSvc.On("Record", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(parent.AccountID, account.ParentAccountID)
	suite.Equal("1000.1100", account.Path)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2000",
		AccountType: domain.Liability,
		Path:        "2000",
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "1100",
		Name:            "Bank",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NonzeroBalance() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		AccountType:  domain.Asset,
		DebitBalance: decimal.NewFromInt(500),
		IsActive:     true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccountWithActivity() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            "3000",
		AccountType:     domain.Equity,
		IsSystemAccount: true,
		IsActive:        true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasPostedLines", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_UnusedSystemAccount() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            "3000",
		AccountType:     domain.Equity,
		IsSystemAccount: true,
		IsActive:        true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasPostedLines", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("ListChildAccounts", ctx, account.AccountID).Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return !a.IsActive
	})).Return(nil).Once()
	suite.mockAuditSvc.On("Record", ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_ActiveChildBlocks() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	child := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1100",
		AccountType: domain.Asset,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("ListChildAccounts", ctx, account.AccountID).Return([]domain.Account{child}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("ListChildAccounts", ctx, account.AccountID).Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return !a.IsActive && a.LastUpdatedBy == suite.actorID
	})).Return(nil).Once()
	suite.mockAuditSvc.On("Record", ctx, mock.MatchedBy(func(e domain.AuditEvent) bool {
		return e.Operation == domain.AuditDeactivate
	})).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetBalance_CachedWhenNoCutoff() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountType:   domain.Liability,
		DebitBalance:  decimal.NewFromInt(100),
		CreditBalance: decimal.NewFromInt(400),
		IsActive:      true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	balance, err := suite.service.GetBalance(ctx, account.AccountID, nil)

	suite.Require().NoError(err)
	// Liability is credit-normal: (100-400) * -1 = 300.
	suite.True(balance.Equal(decimal.NewFromInt(300)))
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SumPostedLines", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetBalance_AsOfRecomputesFromLines() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountType:   domain.Asset,
		DebitBalance:  decimal.NewFromInt(900), // Cached value includes later postings
		CreditBalance: decimal.Zero,
		IsActive:      true,
	}
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("SumPostedLines", ctx, account.AccountID, asOf).
		Return(decimal.NewFromInt(600), decimal.NewFromInt(100), nil).Once()

	balance, err := suite.service.GetBalance(ctx, account.AccountID, &asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(500)))
}

func (suite *AccountServiceTestSuite) TestGetRolledUpBalance_SumsDescendants() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Asset,
		DebitBalance: decimal.NewFromInt(100),
		IsActive:     true,
	}
	child := domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Asset,
		DebitBalance: decimal.NewFromInt(40),
		IsActive:     true,
	}
	grandchild := domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Asset,
		DebitBalance: decimal.NewFromInt(5),
		IsActive:     true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()
	suite.mockAccountRepo.On("ListChildAccounts", ctx, parent.AccountID).Return([]domain.Account{child}, nil).Once()
	suite.mockAccountRepo.On("ListChildAccounts", ctx, child.AccountID).Return([]domain.Account{grandchild}, nil).Once()
	suite.mockAccountRepo.On("ListChildAccounts", ctx, grandchild.AccountID).Return([]domain.Account{}, nil).Once()

	total, err := suite.service.GetRolledUpBalance(ctx, parent.AccountID)

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.NewFromInt(145)))
}

func (suite *AccountServiceTestSuite) TestVerifyAccountIntegrity_MismatchHoldsAccount() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1000",
		AccountType:   domain.Asset,
		DebitBalance:  decimal.NewFromInt(1000),
		CreditBalance: decimal.Zero,
		IsActive:      true,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("SumPostedLines", ctx, account.AccountID, mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(999), decimal.Zero, nil).Once()

	err := suite.service.VerifyAccountIntegrity(ctx, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
	reason, held := suite.guard.IsHeld(account.AccountID)
	suite.True(held)
	suite.NotEmpty(reason)
}

func (suite *AccountServiceTestSuite) TestVerifyAccountIntegrity_MatchReleasesHold() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          "1000",
		AccountType:   domain.Asset,
		DebitBalance:  decimal.NewFromInt(1000),
		CreditBalance: decimal.NewFromInt(200),
		IsActive:      true,
	}
	suite.guard.Hold(account.AccountID, "previous mismatch")

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("SumPostedLines", ctx, account.AccountID, mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(1000), decimal.NewFromInt(200), nil).Once()

	err := suite.service.VerifyAccountIntegrity(ctx, account.AccountID)

	suite.Require().NoError(err)
	_, held := suite.guard.IsHeld(account.AccountID)
	suite.False(held)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
