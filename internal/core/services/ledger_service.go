package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmetal/workdoc_app/internal/apperrors"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopmetal/workdoc_app/internal/dto"
	"github.com/shopmetal/workdoc_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// ledgerService records labor punch sessions against work orders.
type ledgerService struct {
	documents   portsrepo.DocumentReader
	entries     portsrepo.TimeEntryRepositoryFacade
	directory   portsrepo.DirectoryReader
	defaultRate decimal.Decimal
	now         func() time.Time
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// NewLedgerService creates a new time ledger service. defaultRate applies
// when no work-center rate resolves; a nil clock defaults to UTC wall time.
func NewLedgerService(documents portsrepo.DocumentReader, entries portsrepo.TimeEntryRepositoryFacade, directory portsrepo.DirectoryReader, defaultRate decimal.Decimal, now func() time.Time) portssvc.LedgerSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ledgerService{
		documents:   documents,
		entries:     entries,
		directory:   directory,
		defaultRate: defaultRate,
		now:         now,
	}
}

func (s *ledgerService) PunchIn(ctx context.Context, req dto.PunchInRequest) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.WorkOrderRef == "" && req.ProjectRef == "" {
		return nil, apperrors.NewValidationError([]string{"punch-in requires a work order or project reference"})
	}

	rate := s.defaultRate
	if req.WorkOrderRef != "" {
		doc, err := s.documents.FindDocumentByID(ctx, req.WorkOrderRef)
		if err != nil {
			return nil, fmt.Errorf("failed to get work order %s: %w", req.WorkOrderRef, err)
		}
		if doc.Kind != domain.WorkOrder {
			return nil, apperrors.NewValidationError([]string{fmt.Sprintf("document %s is a %s, not a work order", doc.Number, doc.Kind)})
		}
		if doc.Status.IsTerminal() {
			return nil, fmt.Errorf("work order %s is %s: %w", doc.Number, doc.Status, apperrors.ErrIneligibleState)
		}
		rate = s.resolveRate(ctx, doc)
	}

	nowTime := s.now()
	entry := &domain.TimeEntry{
		EntryID:      uuid.NewString(),
		EmployeeRef:  req.EmployeeRef,
		WorkOrderRef: req.WorkOrderRef,
		ProjectRef:   req.ProjectRef,
		PunchIn:      nowTime,
		HourlyRate:   rate,
		Notes:        req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     nowTime,
			CreatedBy:     req.EmployeeRef,
			LastUpdatedAt: nowTime,
			LastUpdatedBy: req.EmployeeRef,
		},
	}
	if err := s.entries.CreateOpenEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPunchedIn) {
			return nil, fmt.Errorf("employee %s: %w", req.EmployeeRef, apperrors.ErrAlreadyPunchedIn)
		}
		logger.Error("failed to open time entry", "employeeRef", req.EmployeeRef, "error", err)
		return nil, fmt.Errorf("failed to open time entry: %w", err)
	}

	logger.Info("punched in", "employeeRef", req.EmployeeRef, "workOrderRef", req.WorkOrderRef, "rate", rate)
	return entry, nil
}

func (s *ledgerService) PunchOut(ctx context.Context, req dto.PunchOutRequest) (*dto.SessionSummaryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entries.FindOpenEntryByEmployee(ctx, req.EmployeeRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("employee %s: %w", req.EmployeeRef, apperrors.ErrNoOpenEntry)
		}
		return nil, fmt.Errorf("failed to find open time entry: %w", err)
	}

	punchOut := s.now()
	hours := domain.HoursBetween(entry.PunchIn, punchOut)
	cost := hours.Mul(entry.HourlyRate)
	notes := entry.Notes
	if req.Notes != "" {
		notes = req.Notes
	}
	if err := s.entries.CloseEntry(ctx, entry.EntryID, punchOut, hours, cost, notes); err != nil {
		logger.Error("failed to close time entry", "entryID", entry.EntryID, "error", err)
		return nil, fmt.Errorf("failed to close time entry %s: %w", entry.EntryID, err)
	}

	logger.Info("punched out", "employeeRef", req.EmployeeRef, "hours", hours, "cost", cost)
	return &dto.SessionSummaryResponse{
		EntryID:      entry.EntryID,
		WorkOrderRef: entry.WorkOrderRef,
		PunchIn:      entry.PunchIn,
		PunchOut:     punchOut,
		TotalHours:   hours,
		TotalCost:    cost,
	}, nil
}

func (s *ledgerService) ActiveEntry(ctx context.Context, employeeRef string) (*dto.ActiveEntryResponse, error) {
	entry, err := s.entries.FindOpenEntryByEmployee(ctx, employeeRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open time entry: %w", err)
	}

	elapsed := domain.HoursBetween(entry.PunchIn, s.now())
	return &dto.ActiveEntryResponse{
		Entry:         dto.ToTimeEntryResponse(entry),
		ElapsedHours:  elapsed,
		EstimatedCost: elapsed.Mul(entry.HourlyRate),
	}, nil
}

func (s *ledgerService) HoursAndCostFor(ctx context.Context, workOrderRef string) (*domain.WorkOrderEffort, error) {
	doc, err := s.documents.FindDocumentByID(ctx, workOrderRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get work order %s: %w", workOrderRef, err)
	}
	if doc.Kind != domain.WorkOrder {
		return nil, apperrors.NewValidationError([]string{fmt.Sprintf("document %s is a %s, not a work order", doc.Number, doc.Kind)})
	}
	effort, err := s.entries.SummarizeWorkOrder(ctx, workOrderRef)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize work order %s: %w", workOrderRef, err)
	}
	return effort, nil
}

// resolveRate looks up the hourly rate of the work order's first work center,
// falling back to the configured default when none resolves.
func (s *ledgerService) resolveRate(ctx context.Context, doc *domain.Document) decimal.Decimal {
	logger := middleware.GetLoggerFromCtx(ctx)

	meta := doc.Metadata.WorkOrder
	if meta == nil || len(meta.WorkCenterRefs) == 0 {
		return s.defaultRate
	}
	rate, err := s.directory.WorkCenterRate(ctx, meta.WorkCenterRefs[0])
	if err != nil {
		logger.Warn("work-center rate lookup failed, using default", "workCenterRef", meta.WorkCenterRefs[0], "error", err)
		return s.defaultRate
	}
	if !rate.IsPositive() {
		return s.defaultRate
	}
	return rate
}
