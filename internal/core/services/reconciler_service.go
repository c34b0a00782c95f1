package services

import (
	"context"
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

// reconcilerService recomputes work-order progress from the labor ledger and
// repairs the ledger itself. Every batch operation skips failing items and
// reports counts instead of aborting.
type reconcilerService struct {
	documents  portsrepo.DocumentRepositoryFacade
	entries    portsrepo.TimeEntryRepositoryFacade
	progress   portsrepo.ProgressRepositoryFacade
	scheduling portsrepo.SchedulingRepositoryFacade

	defaultRate decimal.Decimal
	maxOpenAge  time.Duration
	now         func() time.Time
}

var _ portssvc.ReconcilerSvcFacade = (*reconcilerService)(nil)

// NewReconcilerService creates a new progress reconciler. maxOpenAge is the
// default purge horizon for open entries; a nil clock defaults to UTC wall time.
func NewReconcilerService(documents portsrepo.DocumentRepositoryFacade, entries portsrepo.TimeEntryRepositoryFacade, progress portsrepo.ProgressRepositoryFacade, scheduling portsrepo.SchedulingRepositoryFacade, defaultRate decimal.Decimal, maxOpenAge time.Duration, now func() time.Time) portssvc.ReconcilerSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &reconcilerService{
		documents:   documents,
		entries:     entries,
		progress:    progress,
		scheduling:  scheduling,
		defaultRate: defaultRate,
		maxOpenAge:  maxOpenAge,
		now:         now,
	}
}

func (s *reconcilerService) RecomputeProgress(ctx context.Context, workOrderRef string) (float64, error) {
	doc, err := s.documents.FindDocumentByID(ctx, workOrderRef)
	if err != nil {
		return 0, fmt.Errorf("failed to get work order %s: %w", workOrderRef, err)
	}
	if doc.Kind != domain.WorkOrder {
		return 0, apperrors.NewValidationError([]string{fmt.Sprintf("document %s is a %s, not a work order", doc.Number, doc.Kind)})
	}
	return s.recomputeOne(ctx, doc)
}

func (s *reconcilerService) RecomputeAll(ctx context.Context) (*dto.RecomputeAllResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.WorkOrder
	docs, err := s.documents.ListDocuments(ctx, portsrepo.DocumentFilter{
		Kind:            &kind,
		ExcludeTerminal: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	result := &dto.RecomputeAllResponse{}
	for i := range docs {
		if _, err := s.recomputeOne(ctx, &docs[i]); err != nil {
			logger.Warn("skipping work order during recompute", "workOrderID", docs[i].DocumentID, "error", err)
			result.Skipped++
			continue
		}
		result.Processed++
	}
	logger.Info("progress recomputed", "processed", result.Processed, "skipped", result.Skipped)
	return result, nil
}

func (s *reconcilerService) Synchronize(ctx context.Context) (*dto.SynchronizeResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.SynchronizeResponse{}

	broken, err := s.entries.FindEntriesMissingCost(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries missing cost: %w", err)
	}
	for i := range broken {
		entry := &broken[i]
		if entry.PunchOut == nil {
			continue
		}
		rate := entry.HourlyRate
		if !rate.IsPositive() {
			rate = s.defaultRate
		}
		hours := domain.HoursBetween(entry.PunchIn, *entry.PunchOut)
		if entry.TotalHours != nil && entry.TotalHours.IsPositive() {
			hours = *entry.TotalHours
		}
		cost := hours.Mul(rate)
		if err := s.entries.RepairEntry(ctx, entry.EntryID, rate, hours, cost); err != nil {
			logger.Warn("skipping unrepairable time entry", "entryID", entry.EntryID, "error", err)
			continue
		}
		result.RepairedEntries++
	}

	refs, err := s.entries.ListWorkOrdersWithCost(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders with booked cost: %w", err)
	}
	for _, ref := range refs {
		advanced, err := s.advanceIfValidated(ctx, ref)
		if err != nil {
			logger.Warn("skipping work order status sync", "workOrderRef", ref, "error", err)
			continue
		}
		if advanced {
			result.AdvancedOrders++
		}
	}

	recompute, err := s.RecomputeAll(ctx)
	if err != nil {
		return nil, err
	}
	result.ProgressUpdates = recompute.Processed
	result.ProgressFailures = recompute.Skipped

	logger.Info("ledger synchronized", "repaired", result.RepairedEntries, "advanced", result.AdvancedOrders)
	return result, nil
}

func (s *reconcilerService) PurgeOrphans(ctx context.Context, maxOpenAge time.Duration) (*dto.PurgeResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if maxOpenAge <= 0 {
		maxOpenAge = s.maxOpenAge
	}
	cutoff := s.now().Add(-maxOpenAge)
	result := &dto.PurgeResponse{}

	stale, err := s.entries.FindOpenEntriesOlderThan(ctx, cutoff)
	if err != nil {
		logger.Warn("skipping stale-open purge category", "error", err)
		result.SkippedOnFailure++
	} else {
		result.StaleOpen = s.deleteEntries(ctx, stale, result)
	}

	zero, err := s.entries.FindClosedEntriesWithoutHours(ctx)
	if err != nil {
		logger.Warn("skipping zero-hour purge category", "error", err)
		result.SkippedOnFailure++
	} else {
		result.ZeroHours = s.deleteEntries(ctx, zero, result)
	}

	dangling, err := s.entries.FindEntriesWithMissingWorkOrder(ctx)
	if err != nil {
		logger.Warn("skipping dangling-reference purge category", "error", err)
		result.SkippedOnFailure++
	} else {
		result.DanglingRef = s.deleteEntries(ctx, dangling, result)
	}

	logger.Info("orphaned entries purged",
		"staleOpen", result.StaleOpen,
		"zeroHours", result.ZeroHours,
		"danglingRef", result.DanglingRef,
		"maxOpenAge", maxOpenAge)
	return result, nil
}

func (s *reconcilerService) MarkDone(ctx context.Context, workOrderRef string, actorID, comment string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.documents.FindDocumentByID(ctx, workOrderRef)
	if err != nil {
		return fmt.Errorf("failed to get work order %s: %w", workOrderRef, err)
	}
	if doc.Kind != domain.WorkOrder {
		return apperrors.NewValidationError([]string{fmt.Sprintf("document %s is a %s, not a work order", doc.Number, doc.Kind)})
	}
	if doc.Status == domain.StatusDone {
		return nil
	}
	if !domain.CanTransition(doc.Status, domain.StatusDone) {
		return fmt.Errorf("cannot complete %s work order %s: %w", doc.Status, doc.Number, apperrors.ErrInvalidTransition)
	}

	nowTime := s.now()
	audit := domain.AuditRecord{
		AuditID:        uuid.NewString(),
		DocumentID:     doc.DocumentID,
		Kind:           domain.AuditCompletion,
		ActorRef:       actorID,
		PreviousStatus: doc.Status,
		NewStatus:      domain.StatusDone,
		Comment:        comment,
		RecordedAt:     nowTime,
	}
	if err := s.documents.UpdateStatus(ctx, doc.DocumentID, domain.StatusDone, audit); err != nil {
		return fmt.Errorf("failed to complete work order %s: %w", doc.Number, err)
	}

	if err := s.progress.ForceProgressDone(ctx, doc.DocumentID, nowTime); err != nil {
		logger.Warn("work order completed but progress not pinned", "workOrderID", doc.DocumentID, "error", err)
	}
	released, err := s.scheduling.ReleaseReservations(ctx, doc.DocumentID, nowTime)
	if err != nil {
		logger.Warn("work order completed but reservations not released", "workOrderID", doc.DocumentID, "error", err)
	}

	logger.Info("work order completed", "number", doc.Number, "releasedReservations", released)
	return nil
}

// recomputeOne derives and stores the completion percentage of one work order.
func (s *reconcilerService) recomputeOne(ctx context.Context, doc *domain.Document) (float64, error) {
	effort, err := s.entries.SummarizeWorkOrder(ctx, doc.DocumentID)
	if err != nil {
		return 0, fmt.Errorf("failed to summarize work order %s: %w", doc.DocumentID, err)
	}

	var estimate *float64
	if meta := doc.Metadata.WorkOrder; meta != nil {
		estimate = meta.EstimatedHours
	}
	pct := domain.ComputeProgress(effort.TotalHours, estimate)

	record := &domain.ProgressRecord{
		WorkOrderID:    doc.DocumentID,
		Percentage:     pct,
		WorkedHours:    effort.TotalHours,
		EstimatedHours: estimate,
		UpdatedAt:      s.now(),
	}
	if err := s.progress.SaveProgress(ctx, record); err != nil {
		return 0, fmt.Errorf("failed to save progress of work order %s: %w", doc.DocumentID, err)
	}
	return pct, nil
}

// advanceIfValidated moves a VALIDATED work order to APPROVED once labor cost
// has been booked against it.
func (s *reconcilerService) advanceIfValidated(ctx context.Context, workOrderRef string) (bool, error) {
	doc, err := s.documents.FindDocumentByID(ctx, workOrderRef)
	if err != nil {
		return false, err
	}
	if doc.Kind != domain.WorkOrder || doc.Status != domain.StatusValidated {
		return false, nil
	}
	audit := domain.AuditRecord{
		AuditID:        uuid.NewString(),
		DocumentID:     doc.DocumentID,
		Kind:           domain.AuditStatusChange,
		PreviousStatus: doc.Status,
		NewStatus:      domain.StatusApproved,
		Comment:        "Labor recorded, order moved in progress",
		RecordedAt:     s.now(),
	}
	if err := s.documents.UpdateStatus(ctx, doc.DocumentID, domain.StatusApproved, audit); err != nil {
		return false, err
	}
	return true, nil
}

// deleteEntries removes one purge category, tolerating per-batch failure.
func (s *reconcilerService) deleteEntries(ctx context.Context, entries []domain.TimeEntry, result *dto.PurgeResponse) int {
	if len(entries) == 0 {
		return 0
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].EntryID
	}
	deleted, err := s.entries.DeleteEntries(ctx, ids)
	if err != nil {
		logger.Warn("failed to delete purge batch", "count", len(ids), "error", err)
		result.SkippedOnFailure++
		return 0
	}
	return int(deleted)
}
