package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/ledger_core/internal/apperrors"
	"github.com/finbooks/ledger_core/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	"github.com/finbooks/ledger_core/internal/models"
	"github.com/finbooks/ledger_core/internal/utils/accounting"
	"github.com/finbooks/ledger_core/internal/utils/mapping"
	"github.com/finbooks/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, entry_number, entry_date, description, source_type, status, period_id,
	total_debit, total_credit, reverses_entry_id, reversed_by_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, subsidiary_id, debit_amount, credit_amount, memo,
	running_balance, detail, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountTx    portsrepo.AccountTxOps
	subsidiaryTx portsrepo.SubsidiaryTxOps
	sequenceRepo portsrepo.SequenceRepository
	auditRepo    portsrepo.AuditRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
// Posting needs the account and subsidiary transactional operations plus the
// sequence and audit repositories so one commit covers everything.
func newPgxJournalRepository(
	pool *pgxpool.Pool,
	accountTx portsrepo.AccountTxOps,
	subsidiaryTx portsrepo.SubsidiaryTxOps,
	sequenceRepo portsrepo.SequenceRepository,
	auditRepo portsrepo.AuditRepository,
) portsrepo.EntryRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{pool: pool},
		accountTx:      accountTx,
		subsidiaryTx:   subsidiaryTx,
		sequenceRepo:   sequenceRepo,
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var entryNumber sql.NullInt64
	var periodID sql.NullString
	err := row.Scan(
		&m.EntryID,
		&entryNumber,
		&m.EntryDate,
		&m.Description,
		&m.SourceType,
		&m.Status,
		&periodID,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ReversesEntryID,
		&m.ReversedByEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if entryNumber.Valid {
		m.EntryNumber = entryNumber.Int64
	}
	if periodID.Valid {
		m.PeriodID = periodID.String
	}
	return m, nil
}

func scanLine(row pgx.Row) (models.EntryLine, error) {
	var m models.EntryLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.SubsidiaryID,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.Memo,
		&m.RunningBalance,
		&m.Detail,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM entry_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`
	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var ms []models.EntryLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry line row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry line rows: %w", err)
	}
	return mapping.ToDomainEntryLineSlice(ms)
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	args := []any{}
	conds := ""
	appendCond := func(cond string) {
		if conds == "" {
			conds = " WHERE " + cond
		} else {
			conds += " AND " + cond
		}
	}

	if status != nil {
		args = append(args, string(*status))
		appendCond(fmt.Sprintf("status = $%d", len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		tokDate, tokCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		args = append(args, tokDate, tokCreated)
		appendCond(fmt.Sprintf("(entry_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}
	query += conds + fmt.Sprintf(" ORDER BY entry_date DESC, created_at DESC LIMIT %d;", limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var ms []models.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		next = &token
	}
	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, next, nil
}

func (r *PgxJournalRepository) CountDraftEntriesInPeriod(ctx context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM journal_entries
		WHERE status = 'DRAFT' AND entry_date >= $1 AND entry_date <= $2;
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draft entries: %w", err)
	}
	return count, nil
}

func (r *PgxJournalRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntry(ctx, tx, entry, nil); err != nil {
		return err
	}
	if err := r.insertLines(ctx, tx, lines); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit draft: %w", translatePgError(err))
	}
	return nil
}

func (r *PgxJournalRepository) DeleteDraft(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete draft lines of entry %s: %w", entryID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete draft entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit draft deletion: %w", translatePgError(err))
	}
	return nil
}

/// PostEntry commits one posting atomically: entry number assignment, account
// and subsidiary row locks, balance mutations, line running balances, the
// optional reversal link and the audit event all ride the same transaction.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, args portsrepo.PostArgs) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	// The period could have been closed between the service's check and this
	// transaction. FOR SHARE holds the period row against a concurrent close
	// (which locks it FOR UPDATE) until this posting commits.
	var periodStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM accounting_periods WHERE period_id = $1 FOR SHARE;`, args.Entry.PeriodID).Scan(&periodStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("period %s: %w", args.Entry.PeriodID, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to check period status: %w", translatePgError(err))
	}
	if periodStatus != string(domain.PeriodOpen) {
		return 0, fmt.Errorf("period %s is closed: %w", args.Entry.PeriodID, apperrors.ErrConflict)
	}

	entryNumber, err := r.sequenceRepo.NextEntryNumber(ctx, tx, accounting.FiscalYear(args.Entry.EntryDate))
	if err != nil {
		return 0, err
	}

	accountIDs := make([]string, 0, len(args.AccountDeltas))
	for id := range args.AccountDeltas {
		accountIDs = append(accountIDs, id)
	}
	lockedAccounts, err := r.accountTx.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return 0, err
	}

	if len(args.SubsidiaryDeltas) > 0 {
		subsidiaryIDs := make([]string, 0, len(args.SubsidiaryDeltas))
		for id := range args.SubsidiaryDeltas {
			subsidiaryIDs = append(subsidiaryIDs, id)
		}
		if _, err := r.subsidiaryTx.FindSubsidiariesByIDsForUpdate(ctx, tx, subsidiaryIDs); err != nil {
			return 0, err
		}
	}

	lines, err := computeRunningBalances(args.Lines, lockedAccounts)
	if err != nil {
		return 0, err
	}

	entry := args.Entry
	entry.EntryNumber = entryNumber
	entry.Status = domain.Posted

	if args.PromoteDraft {
		if err := r.promoteDraftEntry(ctx, tx, entry); err != nil {
			return 0, err
		}
		// Draft lines are replaced so running balances land on them.
		if _, err := tx.Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
			return 0, fmt.Errorf("failed to clear draft lines of entry %s: %w", entry.EntryID, err)
		}
	} else {
		if err := r.insertEntry(ctx, tx, entry, &entryNumber); err != nil {
			return 0, err
		}
	}
	if err := r.insertLines(ctx, tx, lines); err != nil {
		return 0, err
	}

	if err := r.accountTx.ApplyBalanceDeltasInTx(ctx, tx, args.AccountDeltas, entry.CreatedBy, entry.LastUpdatedAt); err != nil {
		return 0, err
	}
	if len(args.SubsidiaryDeltas) > 0 {
		if err := r.subsidiaryTx.ApplySubsidiaryDeltasInTx(ctx, tx, args.SubsidiaryDeltas, entry.CreatedBy, entry.LastUpdatedAt); err != nil {
			return 0, err
		}
	}

	if args.MarkReversedEntryID != nil {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = 'REVERSED', reversed_by_entry_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1 AND status = 'POSTED';
		`, *args.MarkReversedEntryID, entry.EntryID, entry.LastUpdatedAt, entry.LastUpdatedBy)
		if err != nil {
			return 0, fmt.Errorf("failed to mark entry %s reversed: %w", *args.MarkReversedEntryID, translatePgError(err))
		}
		if cmdTag.RowsAffected() == 0 {
			// Lost a race against another reversal of the same entry.
			return 0, fmt.Errorf("entry %s is no longer posted: %w", *args.MarkReversedEntryID, apperrors.ErrConflict)
		}
	}

	if err := r.auditRepo.RecordEventInTx(ctx, tx, args.Audit); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit posting: %w", translatePgError(err))
	}
	return entryNumber, nil
}

// computeRunningBalances stamps each line with the account's net balance after
// the line applies, starting from the locked (and therefore stable) balances.
func computeRunningBalances(lines []domain.EntryLine, accounts map[string]domain.Account) ([]domain.EntryLine, error) {
	running := make(map[string]decimal.Decimal, len(accounts))
	for id, acc := range accounts {
		running[id] = acc.NetBalance()
	}

	out := make([]domain.EntryLine, len(lines))
	for i, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("line %s references unlocked account %s: %w", line.LineID, line.AccountID, apperrors.ErrNotFound)
		}
		delta, err := accounting.SignedDelta(line, account.AccountType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		running[line.AccountID] = running[line.AccountID].Add(delta)
		line.RunningBalance = running[line.AccountID]
		out[i] = line
	}
	return out, nil
}

func (r *PgxJournalRepository) insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, entryNumber *int64) error {
	m := mapping.ToModelJournalEntry(entry)

	var number sql.NullInt64
	if entryNumber != nil {
		number = sql.NullInt64{Int64: *entryNumber, Valid: true}
	}
	var periodID sql.NullString
	if m.PeriodID != "" {
		periodID = sql.NullString{String: m.PeriodID, Valid: true}
	}

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		number,
		m.EntryDate,
		m.Description,
		m.SourceType,
		m.Status,
		periodID,
		m.TotalDebit,
		m.TotalCredit,
		m.ReversesEntryID,
		m.ReversedByEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, translatePgError(err))
	}
	return nil
}

func (r *PgxJournalRepository) promoteDraftEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	cmdTag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET entry_number = $2, status = $3, period_id = $4, reverses_entry_id = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1 AND status = 'DRAFT';
	`,
		m.EntryID,
		m.EntryNumber,
		m.Status,
		m.PeriodID,
		m.ReversesEntryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to promote draft entry %s: %w", m.EntryID, translatePgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s is not a draft: %w", m.EntryID, apperrors.ErrConflict)
	}
	return nil
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, tx pgx.Tx, lines []domain.EntryLine) error {
	query := `
		INSERT INTO entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m, err := mapping.ToModelEntryLine(line)
		if err != nil {
			return fmt.Errorf("failed to serialize line %s: %w", line.LineID, err)
		}
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.SubsidiaryID,
			m.DebitAmount,
			m.CreditAmount,
			m.Memo,
			m.RunningBalance,
			m.Detail,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert line %s: %w", lines[i].LineID, translatePgError(err))
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line insert batch: %w", translatePgError(err))
	}
	return batchErr
}
