package accounting

import (
	"testing"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(amount int64) domain.EntryLine {
	return domain.EntryLine{LineID: "d", DebitAmount: decimal.NewFromInt(amount)}
}

func creditLine(amount int64) domain.EntryLine {
	return domain.EntryLine{LineID: "c", CreditAmount: decimal.NewFromInt(amount)}
}

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.EntryLine
		accountType domain.AccountType
		want        int64
	}{
		{"debit to asset increases", debitLine(100), domain.Asset, 100},
		{"credit to asset decreases", creditLine(100), domain.Asset, -100},
		{"debit to expense increases", debitLine(40), domain.Expense, 40},
		{"debit to liability decreases", debitLine(100), domain.Liability, -100},
		{"credit to liability increases", creditLine(100), domain.Liability, 100},
		{"credit to equity increases", creditLine(70), domain.Equity, 70},
		{"credit to revenue increases", creditLine(250), domain.Revenue, 250},
		{"debit to revenue decreases", debitLine(250), domain.Revenue, -250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, err := SignedDelta(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, delta.Equal(decimal.NewFromInt(tt.want)),
				"got %s, want %d", delta.String(), tt.want)
		})
	}
}

func TestSignedDelta_UnknownAccountType(t *testing.T) {
	_, err := SignedDelta(debitLine(10), domain.AccountType("PHANTOM"))
	assert.Error(t, err)
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.EntryLine
		wantErr bool
	}{
		{"debit only", debitLine(100), false},
		{"credit only", creditLine(100), false},
		{"both sides set", domain.EntryLine{DebitAmount: decimal.NewFromInt(50), CreditAmount: decimal.NewFromInt(50)}, true},
		{"neither side set", domain.EntryLine{}, true},
		{"negative debit", domain.EntryLine{DebitAmount: decimal.NewFromInt(-10)}, true},
		{"negative credit", domain.EntryLine{CreditAmount: decimal.NewFromInt(-10)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSumLines(t *testing.T) {
	lines := []domain.EntryLine{debitLine(100), debitLine(50), creditLine(150)}

	totalDebit, totalCredit := SumLines(lines)

	assert.True(t, totalDebit.Equal(decimal.NewFromInt(150)))
	assert.True(t, totalCredit.Equal(decimal.NewFromInt(150)))
}

func TestValidateEntryLines(t *testing.T) {
	t.Run("balanced entry passes", func(t *testing.T) {
		err := ValidateEntryLines([]domain.EntryLine{debitLine(100), creditLine(60), creditLine(40)})
		assert.NoError(t, err)
	})

	t.Run("unbalanced entry fails", func(t *testing.T) {
		err := ValidateEntryLines([]domain.EntryLine{debitLine(100), creditLine(99)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not balance")
	})

	t.Run("single line fails", func(t *testing.T) {
		err := ValidateEntryLines([]domain.EntryLine{debitLine(100)})
		assert.Error(t, err)
	})

	t.Run("no rounding tolerance", func(t *testing.T) {
		penny := domain.EntryLine{DebitAmount: decimal.RequireFromString("100.0001")}
		err := ValidateEntryLines([]domain.EntryLine{penny, creditLine(100)})
		assert.Error(t, err)
	})
}

func TestFiscalYear(t *testing.T) {
	assert.Equal(t, 2026, FiscalYear(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, FiscalYear(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)))
}
