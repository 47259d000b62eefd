package pgsql

import (
	"github.com/finbooks/ledger_core/internal/core/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositories wires the pgsql repository set over one connection pool.
// The journal repository receives the account, subsidiary, sequence and audit
// repositories so a posting commits everything in a single transaction.
func NewRepositories(dbPool *pgxpool.Pool) services.Repositories {
	accountRepo := newPgxAccountRepository(dbPool)
	subsidiaryRepo := newPgxSubsidiaryRepository(dbPool)
	sequenceRepo := newPgxSequenceRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo, subsidiaryRepo, sequenceRepo, auditRepo)
	periodRepo := newPgxPeriodRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return services.Repositories{
		Account:    accountRepo,
		Entry:      journalRepo,
		Subsidiary: subsidiaryRepo,
		Period:     periodRepo,
		Audit:      auditRepo,
		Reporting:  reportingRepo,
	}
}
