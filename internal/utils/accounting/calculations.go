package accounting

import (
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedDelta computes the effect of a line on an account's net balance:
// (debit - credit) multiplied by the account type's normal sign.
// DEBIT to ASSET/EXPENSE -> positive; CREDIT to ASSET/EXPENSE -> negative;
// the reverse for LIABILITY/EQUITY/REVENUE.
func SignedDelta(line domain.EntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	sign := accountType.NormalSign()
	if sign == 0 {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
	delta := line.DebitAmount.Sub(line.CreditAmount)
	if sign < 0 {
		delta = delta.Neg()
	}
	return delta, nil
}

// ValidateLine enforces the one-sided line invariant: both amounts
// non-negative and exactly one of them nonzero.
func ValidateLine(line domain.EntryLine) error {
	if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
		return fmt.Errorf("line %s: amounts must be non-negative", line.LineID)
	}
	debitSet := line.DebitAmount.IsPositive()
	creditSet := line.CreditAmount.IsPositive()
	if debitSet == creditSet {
		return fmt.Errorf("line %s: exactly one of debit or credit must be nonzero", line.LineID)
	}
	return nil
}

// SumLines returns the debit and credit totals across lines.
func SumLines(lines []domain.EntryLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}
	return totalDebit, totalCredit
}

// ValidateEntryLines checks the double-entry invariants for a candidate entry:
// at least two lines, every line one-sided, and total debits equal total
// credits exactly. No rounding tolerance: fixed-point arithmetic must net to
// zero difference.
func ValidateEntryLines(lines []domain.EntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry requires at least two lines, got %d", len(lines))
	}
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
	}
	totalDebit, totalCredit := SumLines(lines)
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("entry does not balance: debits %s, credits %s",
			totalDebit.String(), totalCredit.String())
	}
	return nil
}

// FiscalYear returns the numbering scope for an entry date. Entry numbers are
// monotonic within a fiscal year.
func FiscalYear(entryDate time.Time) int {
	return entryDate.Year()
}
