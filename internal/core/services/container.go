package services

import (
	"time"

	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Container bundles the engine services handed to the HTTP layer.
type Container struct {
	Document   portssvc.DocumentSvcFacade
	Conversion portssvc.ConversionSvcFacade
	Ledger     portssvc.LedgerSvcFacade
	Reconciler portssvc.ReconcilerSvcFacade
}

// ContainerConfig carries the engine knobs the services need.
type ContainerConfig struct {
	POLeadTimeDays    int
	DefaultHourlyRate decimal.Decimal
	PurgeMaxOpenAge   time.Duration
	Now               func() time.Time
}

// NewContainer wires every engine service against the given repositories.
func NewContainer(
	documents portsrepo.DocumentRepositoryFacade,
	entries portsrepo.TimeEntryRepositoryFacade,
	scheduling portsrepo.SchedulingRepositoryFacade,
	progress portsrepo.ProgressRepositoryFacade,
	directory portsrepo.DirectoryReader,
	projects portssvc.ProjectCreator,
	cfg ContainerConfig,
) *Container {
	return &Container{
		Document:   NewDocumentService(documents, scheduling, directory, cfg.Now),
		Conversion: NewConversionService(documents, projects, cfg.POLeadTimeDays, cfg.Now),
		Ledger:     NewLedgerService(documents, entries, directory, cfg.DefaultHourlyRate, cfg.Now),
		Reconciler: NewReconcilerService(documents, entries, progress, scheduling, cfg.DefaultHourlyRate, cfg.PurgeMaxOpenAge, cfg.Now),
	}
}
