package dto

import (
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code               string             `json:"code" binding:"required"`
	Name               string             `json:"name" binding:"required"`
	NameLocal          string             `json:"nameLocal"`
	AccountType        domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID    *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description        string             `json:"description"`
	AllowManualEntries *bool              `json:"allowManualEntries"` // Defaults to true
	IsSystemAccount    bool               `json:"isSystemAccount"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name               *string `json:"name"`
	NameLocal          *string `json:"nameLocal"`
	Description        *string `json:"description"`
	AllowManualEntries *bool   `json:"allowManualEntries"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	NameLocal          string             `json:"nameLocal,omitempty"`
	AccountType        domain.AccountType `json:"accountType"`
	ParentAccountID    string             `json:"parentAccountID,omitempty"`
	Path               string             `json:"path"`
	Description        string             `json:"description,omitempty"`
	DebitBalance       decimal.Decimal    `json:"debitBalance"`
	CreditBalance      decimal.Decimal    `json:"creditBalance"`
	NetBalance         decimal.Decimal    `json:"netBalance"`
	AllowManualEntries bool               `json:"allowManualEntries"`
	IsSystemAccount    bool               `json:"isSystemAccount"`
	IsActive           bool               `json:"isActive"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
}

// BalanceResponse carries a single signed balance figure.
type BalanceResponse struct {
	AccountCode string          `json:"accountCode,omitempty"`
	AsOf        *time.Time      `json:"asOf,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// ListAccountsParams holds query parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is a page of accounts plus the continuation token.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          acc.AccountID,
		Code:               acc.Code,
		Name:               acc.Name,
		NameLocal:          acc.NameLocal,
		AccountType:        acc.AccountType,
		ParentAccountID:    acc.ParentAccountID,
		Path:               acc.Path,
		Description:        acc.Description,
		DebitBalance:       acc.DebitBalance,
		CreditBalance:      acc.CreditBalance,
		NetBalance:         acc.NetBalance(),
		AllowManualEntries: acc.AllowManualEntries,
		IsSystemAccount:    acc.IsSystemAccount,
		IsActive:           acc.IsActive,
		CreatedAt:          acc.CreatedAt,
		LastUpdatedAt:      acc.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accs))
	for i := range accs {
		out[i] = ToAccountResponse(&accs[i])
	}
	return out
}
