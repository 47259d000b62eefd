package services

import (
	portsrepo "github.com/finbooks/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_core/internal/core/ports/services"
)

// Repositories bundles the repository implementations the services depend on.
type Repositories struct {
	Account    portsrepo.AccountRepositoryFacade
	Entry      portsrepo.EntryRepositoryFacade
	Subsidiary portsrepo.SubsidiaryRepositoryFacade
	Period     portsrepo.PeriodRepository
	Audit      portsrepo.AuditRepository
	Reporting  portsrepo.ReportingRepository
}

// ServicesContainer holds every service facade plus the shared integrity
// guard. Handlers receive this container and pick the facades they need.
type ServicesContainer struct {
	Account    portssvc.AccountSvcFacade
	Posting    portssvc.PostingSvcFacade
	Reversal   portssvc.ReversalSvcFacade
	Subsidiary portssvc.SubsidiarySvcFacade
	Period     portssvc.PeriodSvcFacade
	Reporting  portssvc.ReportingSvcFacade
	Audit      portssvc.AuditSvcFacade
	Guard      *IntegrityGuard
}

// NewServicesContainer wires the service graph over the given repositories.
// cashAccountCodes configures which accounts the cash flow statement treats
// as cash.
func NewServicesContainer(repos Repositories, cashAccountCodes []string) *ServicesContainer {
	guard := NewIntegrityGuard()
	auditSvc := NewAuditService(repos.Audit)
	postingSvc := NewPostingService(repos.Entry, repos.Account, repos.Subsidiary, repos.Period, guard)
	reversalSvc := NewReversalService(repos.Entry, repos.Account, repos.Subsidiary, repos.Period, guard)

	return &ServicesContainer{
		Account:    NewAccountService(repos.Account, auditSvc, guard),
		Posting:    postingSvc,
		Reversal:   reversalSvc,
		Subsidiary: NewSubsidiaryService(repos.Subsidiary, repos.Account, auditSvc),
		Period:     NewPeriodService(repos.Period, repos.Entry, repos.Reporting, repos.Account, postingSvc, reversalSvc, auditSvc),
		Reporting:  NewReportingService(repos.Reporting, cashAccountCodes),
		Audit:      auditSvc,
		Guard:      guard,
	}
}
