package services

import (
	"context"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopmetal/workdoc_app/internal/dto"
)

// LedgerSvcFacade records labor punch sessions against work orders.
type LedgerSvcFacade interface {
	PunchIn(ctx context.Context, req dto.PunchInRequest) (*domain.TimeEntry, error)
	PunchOut(ctx context.Context, req dto.PunchOutRequest) (*dto.SessionSummaryResponse, error)
	// ActiveEntry returns the employee's open session with live elapsed hours
	// and a cost estimate, or nil when no session is open.
	ActiveEntry(ctx context.Context, employeeRef string) (*dto.ActiveEntryResponse, error)
	HoursAndCostFor(ctx context.Context, workOrderRef string) (*domain.WorkOrderEffort, error)
}
