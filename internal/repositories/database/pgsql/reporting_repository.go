package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new read-only repository for report
// aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountActivity aggregates posted line totals per active account inside
// [from, to]. Reversed originals and their reversal entries both count; their
// lines cancel arithmetically. A single statement keeps the aggregate
// transactionally consistent: a concurrent posting is either fully included
// or fully absent.
func (r *PgxReportingRepository) GetAccountActivity(ctx context.Context, from, to time.Time) ([]domain.AccountActivity, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM accounts a
		LEFT JOIN entry_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		    AND e.status IN ('POSTED', 'REVERSED')
		    AND ($1::timestamptz IS NULL OR e.entry_date >= $1)
		    AND e.entry_date <= $2
		WHERE a.is_active = TRUE
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	var fromArg any
	if !from.IsZero() {
		fromArg = from
	}

	rows, err := r.pool.Query(ctx, query, fromArg, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}
	defer rows.Close()

	var activity []domain.AccountActivity
	for rows.Next() {
		var act domain.AccountActivity
		if err := rows.Scan(&act.AccountID, &act.Code, &act.Name, &act.AccountType, &act.Debit, &act.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account activity row: %w", err)
		}
		activity = append(activity, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	return activity, nil
}

// GetCashMovements aggregates posted line amounts against the named cash
// accounts, grouped by the source type of the entry the line belongs to.
func (r *PgxReportingRepository) GetCashMovements(ctx context.Context, cashAccountCodes []string, from, to time.Time) ([]domain.CashMovement, error) {
	query := `
		SELECT e.source_type,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.code = ANY($1)
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND e.entry_date >= $2 AND e.entry_date <= $3
		GROUP BY e.source_type
		ORDER BY e.source_type;
	`
	rows, err := r.pool.Query(ctx, query, cashAccountCodes, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cash movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.CashMovement
	for rows.Next() {
		var mov domain.CashMovement
		if err := rows.Scan(&mov.SourceType, &mov.CashIn, &mov.CashOut); err != nil {
			return nil, fmt.Errorf("failed to scan cash movement row: %w", err)
		}
		movements = append(movements, mov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash movement rows: %w", err)
	}
	return movements, nil
}

// GetCashBalanceAsOf returns the combined net balance (debits minus credits)
// of the cash accounts up to and including the cutoff.
func (r *PgxReportingRepository) GetCashBalanceAsOf(ctx context.Context, cashAccountCodes []string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount - l.credit_amount), 0)
		FROM entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.code = ANY($1)
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND e.entry_date <= $2;
	`
	var balance decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, cashAccountCodes, asOf).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute cash balance as of %s: %w", asOf.Format("2006-01-02"), err)
	}
	return balance, nil
}

// GetCashBalanceBefore returns the combined net balance of the cash accounts
// for lines dated strictly before the cutoff. Together with a movement range
// starting at the cutoff this partitions the timeline with no gap and no
// overlap.
func (r *PgxReportingRepository) GetCashBalanceBefore(ctx context.Context, cashAccountCodes []string, cutoff time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount - l.credit_amount), 0)
		FROM entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.code = ANY($1)
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND e.entry_date < $2;
	`
	var balance decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, cashAccountCodes, cutoff).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute cash balance before %s: %w", cutoff.Format("2006-01-02"), err)
	}
	return balance, nil
}
