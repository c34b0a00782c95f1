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
	"github.com/shopmetal/workdoc_app/internal/core/validation"
	"github.com/shopmetal/workdoc_app/internal/dto"
	"github.com/shopmetal/workdoc_app/internal/middleware"
)

// documentService provides document lifecycle operations.
type documentService struct {
	repo       portsrepo.DocumentRepositoryFacade
	scheduling portsrepo.SchedulingRepositoryFacade
	directory  portsrepo.DirectoryReader
	now        func() time.Time
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// NewDocumentService creates a new document service. A nil clock defaults to UTC wall time.
func NewDocumentService(repo portsrepo.DocumentRepositoryFacade, scheduling portsrepo.SchedulingRepositoryFacade, directory portsrepo.DirectoryReader, now func() time.Time) portssvc.DocumentSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &documentService{
		repo:       repo,
		scheduling: scheduling,
		directory:  directory,
		now:        now,
	}
}

func (s *documentService) CreateDocument(ctx context.Context, actorID string, req dto.CreateDocumentRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	nowTime := s.now()

	lines := linesFromRequests(req.Lines)
	domain.NormalizeLines(lines)

	priority := domain.DocumentPriority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityNormal
	}

	doc := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.DocumentKind(req.Kind),
		Status:     domain.StatusDraft,
		Priority:   priority,
		ProjectRef: req.ProjectRef,
		PartnerRef: req.PartnerRef,
		OwnerRef:   actorID,
		DueAt:      req.DueAt,
		Notes:      req.Notes,
		Metadata:   req.Metadata,
		Lines:      lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     nowTime,
			CreatedBy:     actorID,
			LastUpdatedAt: nowTime,
			LastUpdatedBy: actorID,
		},
	}
	doc.RecomputeTotal(lines)

	violations := validation.ValidateDocument(doc, lines)
	if doc.PartnerRef != "" {
		exists, err := s.directory.PartnerExists(ctx, doc.PartnerRef)
		if err != nil {
			logger.Error("failed to resolve partner reference", "partnerRef", doc.PartnerRef, "error", err)
			return nil, fmt.Errorf("failed to resolve partner reference: %w", err)
		}
		if !exists {
			violations = append(violations, fmt.Sprintf("partner %q does not exist", doc.PartnerRef))
		}
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	for i := range doc.Lines {
		doc.Lines[i].LineID = uuid.NewString()
		doc.Lines[i].DocumentID = doc.DocumentID
	}

	creation := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		DocumentID: doc.DocumentID,
		Kind:       domain.AuditCreation,
		ActorRef:   actorID,
		NewStatus:  domain.StatusDraft,
		RecordedAt: nowTime,
	}
	if err := s.repo.SaveDocument(ctx, doc, creation); err != nil {
		logger.Error("failed to save document", "kind", doc.Kind, "error", err)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	doc.AuditTrail = []domain.AuditRecord{creation}
	logger.Info("document created", "documentID", doc.DocumentID, "number", doc.Number, "kind", doc.Kind)
	return doc, nil
}

func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.repo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, error) {
	filter := portsrepo.DocumentFilter{
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	var violations []string
	if params.Kind != "" {
		kind := domain.DocumentKind(params.Kind)
		if !kind.IsValid() {
			violations = append(violations, fmt.Sprintf("kind %q is not a known document kind", params.Kind))
		}
		filter.Kind = &kind
	}
	if params.Status != "" {
		status := domain.DocumentStatus(params.Status)
		if !status.IsValid() {
			violations = append(violations, fmt.Sprintf("status %q is not a known status", params.Status))
		}
		filter.Status = &status
	}
	if params.Priority != "" {
		priority := domain.DocumentPriority(params.Priority)
		if !priority.IsValid() {
			violations = append(violations, fmt.Sprintf("priority %q is not a known priority", params.Priority))
		}
		filter.Priority = &priority
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}
	if params.ProjectRef != "" {
		filter.ProjectRef = &params.ProjectRef
	}
	if params.PartnerRef != "" {
		filter.PartnerRef = &params.PartnerRef
	}
	if params.OwnerRef != "" {
		filter.OwnerRef = &params.OwnerRef
	}
	if params.Year != 0 {
		filter.Year = &params.Year
	}
	return s.ListDocumentsFiltered(ctx, filter)
}

func (s *documentService) ListDocumentsFiltered(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.Document, error) {
	docs, err := s.repo.ListDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) NextNumber(ctx context.Context, kind domain.DocumentKind) (string, error) {
	if !kind.IsValid() {
		return "", apperrors.NewValidationError([]string{fmt.Sprintf("kind %q is not a known document kind", kind)})
	}
	return s.repo.NextNumber(ctx, kind, s.now().Year())
}

func (s *documentService) SetStatus(ctx context.Context, documentID string, newStatus domain.DocumentStatus, actorID, comment string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError([]string{fmt.Sprintf("status %q is not a known status", newStatus)})
	}

	doc, err := s.repo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if !domain.CanTransition(doc.Status, newStatus) {
		return nil, fmt.Errorf("cannot move %s from %s to %s: %w", doc.Number, doc.Status, newStatus, apperrors.ErrInvalidTransition)
	}

	auditKind := domain.AuditStatusChange
	if newStatus == domain.StatusDone {
		auditKind = domain.AuditCompletion
	}
	nowTime := s.now()
	audit := domain.AuditRecord{
		AuditID:        uuid.NewString(),
		DocumentID:     documentID,
		Kind:           auditKind,
		ActorRef:       actorID,
		PreviousStatus: doc.Status,
		NewStatus:      newStatus,
		Comment:        comment,
		RecordedAt:     nowTime,
	}
	if err := s.repo.UpdateStatus(ctx, documentID, newStatus, audit); err != nil {
		logger.Error("failed to update document status", "documentID", documentID, "error", err)
		return nil, fmt.Errorf("failed to update status of document %s: %w", documentID, err)
	}

	doc.Status = newStatus
	doc.LastUpdatedAt = nowTime
	doc.LastUpdatedBy = actorID
	doc.AuditTrail = append(doc.AuditTrail, audit)
	logger.Info("document status changed", "documentID", documentID, "from", audit.PreviousStatus, "to", newStatus)
	return doc, nil
}

func (s *documentService) ReplaceLines(ctx context.Context, documentID string, actorID string, req dto.ReplaceLinesRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.repo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if doc.Status.IsTerminal() {
		return nil, fmt.Errorf("cannot edit lines of %s document %s: %w", doc.Status, doc.Number, apperrors.ErrInvalidTransition)
	}

	lines := linesFromRequests(req.Lines)
	domain.NormalizeLines(lines)
	if violations := validation.ValidateLines(lines); len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].DocumentID = documentID
	}

	total := domain.TotalOfLines(lines)
	if err := s.repo.ReplaceLines(ctx, documentID, lines, total, actorID); err != nil {
		logger.Error("failed to replace document lines", "documentID", documentID, "error", err)
		return nil, fmt.Errorf("failed to replace lines of document %s: %w", documentID, err)
	}

	doc.Lines = lines
	doc.TotalAmount = total
	doc.LastUpdatedAt = s.now()
	doc.LastUpdatedBy = actorID
	logger.Info("document lines replaced", "documentID", documentID, "lineCount", len(lines), "total", total)
	return doc, nil
}

func (s *documentService) DuplicateDocument(ctx context.Context, documentID string, actorID string, req dto.DuplicateDocumentRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.repo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	nowTime := s.now()
	copyDoc := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       source.Kind,
		Status:     domain.StatusDraft,
		Priority:   source.Priority,
		ProjectRef: source.ProjectRef,
		PartnerRef: source.PartnerRef,
		OwnerRef:   actorID,
		DueAt:      source.DueAt,
		Notes:      source.Notes,
		Metadata:   source.Metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     nowTime,
			CreatedBy:     actorID,
			LastUpdatedAt: nowTime,
			LastUpdatedBy: actorID,
		},
	}
	// history links belong to the source, not the copy
	copyDoc.Metadata.Conversion = nil
	copyDoc.Metadata.Revision = nil

	if req.Priority != "" {
		priority := domain.DocumentPriority(req.Priority)
		if !priority.IsValid() {
			return nil, apperrors.NewValidationError([]string{fmt.Sprintf("priority %q is not a known priority", req.Priority)})
		}
		copyDoc.Priority = priority
	}
	if req.DueAt != nil {
		copyDoc.DueAt = req.DueAt
	}
	if req.Notes != "" {
		copyDoc.Notes = req.Notes
	}

	copyDoc.Lines = make([]domain.DocumentLine, len(source.Lines))
	copy(copyDoc.Lines, source.Lines)
	for i := range copyDoc.Lines {
		copyDoc.Lines[i].LineID = uuid.NewString()
		copyDoc.Lines[i].DocumentID = copyDoc.DocumentID
	}
	copyDoc.RecomputeTotal(copyDoc.Lines)

	creation := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		DocumentID: copyDoc.DocumentID,
		Kind:       domain.AuditCreation,
		ActorRef:   actorID,
		NewStatus:  domain.StatusDraft,
		Comment:    fmt.Sprintf("Duplicated from %s", source.Number),
		RecordedAt: nowTime,
	}
	if err := s.repo.SaveDocument(ctx, copyDoc, creation); err != nil {
		logger.Error("failed to save duplicated document", "sourceID", documentID, "error", err)
		return nil, fmt.Errorf("failed to duplicate document %s: %w", documentID, err)
	}

	copyDoc.AuditTrail = []domain.AuditRecord{creation}
	logger.Info("document duplicated", "sourceNumber", source.Number, "number", copyDoc.Number)
	return copyDoc, nil
}

func (s *documentService) Statistics(ctx context.Context) ([]domain.KindStatistics, error) {
	stats, err := s.repo.StatisticsByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute document statistics: %w", err)
	}
	return stats, nil
}

func (s *documentService) AssignEmployees(ctx context.Context, workOrderID string, actorID string, employeeRefs []string) ([]domain.WorkOrderAssignment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.workOrderForScheduling(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var violations []string
	for _, ref := range employeeRefs {
		exists, err := s.directory.EmployeeExists(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve employee %s: %w", ref, err)
		}
		if !exists {
			violations = append(violations, fmt.Sprintf("employee %q does not exist", ref))
		}
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	nowTime := s.now()
	assignments := make([]domain.WorkOrderAssignment, 0, len(employeeRefs))
	for _, ref := range employeeRefs {
		assignment := domain.WorkOrderAssignment{
			AssignmentID: uuid.NewString(),
			WorkOrderID:  workOrderID,
			EmployeeRef:  ref,
			Status:       domain.AssignmentActive,
			AssignedAt:   nowTime,
			AssignedBy:   actorID,
		}
		if err := s.scheduling.CreateAssignment(ctx, &assignment); err != nil {
			logger.Error("failed to create assignment", "workOrderID", workOrderID, "employeeRef", ref, "error", err)
			return nil, fmt.Errorf("failed to assign employee %s: %w", ref, err)
		}
		assignments = append(assignments, assignment)
	}

	audit := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		DocumentID: workOrderID,
		Kind:       domain.AuditAssignment,
		ActorRef:   actorID,
		Comment:    fmt.Sprintf("Assigned %d employee(s) to %s", len(assignments), doc.Number),
		RecordedAt: nowTime,
	}
	if err := s.repo.AppendAudit(ctx, audit); err != nil {
		logger.Warn("failed to record assignment audit", "workOrderID", workOrderID, "error", err)
	}
	return assignments, nil
}

func (s *documentService) ReserveWorkCenters(ctx context.Context, workOrderID string, actorID string, req dto.ReserveWorkCentersRequest) ([]domain.WorkCenterReservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.workOrderForScheduling(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var violations []string
	for _, ref := range req.WorkCenterRefs {
		if _, err := s.directory.WorkCenterRate(ctx, ref); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				violations = append(violations, fmt.Sprintf("work center %q does not exist", ref))
				continue
			}
			return nil, fmt.Errorf("failed to resolve work center %s: %w", ref, err)
		}
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	nowTime := s.now()
	reservations := make([]domain.WorkCenterReservation, 0, len(req.WorkCenterRefs))
	for _, ref := range req.WorkCenterRefs {
		reservation := domain.WorkCenterReservation{
			ReservationID: uuid.NewString(),
			WorkOrderID:   workOrderID,
			WorkCenterRef: ref,
			Status:        domain.ReservationHeld,
			ReservedAt:    nowTime,
			PlannedFor:    req.PlannedFor,
		}
		if err := s.scheduling.CreateReservation(ctx, &reservation); err != nil {
			logger.Error("failed to create reservation", "workOrderID", workOrderID, "workCenterRef", ref, "error", err)
			return nil, fmt.Errorf("failed to reserve work center %s: %w", ref, err)
		}
		reservations = append(reservations, reservation)
	}

	audit := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		DocumentID: workOrderID,
		Kind:       domain.AuditAssignment,
		ActorRef:   actorID,
		Comment:    fmt.Sprintf("Reserved %d work center(s) for %s", len(reservations), doc.Number),
		RecordedAt: nowTime,
	}
	if err := s.repo.AppendAudit(ctx, audit); err != nil {
		logger.Warn("failed to record reservation audit", "workOrderID", workOrderID, "error", err)
	}
	return reservations, nil
}

func (s *documentService) ListScheduling(ctx context.Context, workOrderID string) ([]domain.WorkOrderAssignment, []domain.WorkCenterReservation, error) {
	if _, err := s.repo.FindDocumentByID(ctx, workOrderID); err != nil {
		return nil, nil, fmt.Errorf("failed to get document %s: %w", workOrderID, err)
	}
	assignments, err := s.scheduling.ListAssignments(ctx, workOrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	reservations, err := s.scheduling.ListReservations(ctx, workOrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return assignments, reservations, nil
}

// workOrderForScheduling loads a document and checks it can still be scheduled.
func (s *documentService) workOrderForScheduling(ctx context.Context, workOrderID string) (*domain.Document, error) {
	doc, err := s.repo.FindDocumentByID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", workOrderID, err)
	}
	if doc.Kind != domain.WorkOrder {
		return nil, apperrors.NewValidationError([]string{fmt.Sprintf("document %s is a %s, not a work order", doc.Number, doc.Kind)})
	}
	if doc.Status.IsTerminal() {
		return nil, fmt.Errorf("work order %s is %s: %w", doc.Number, doc.Status, apperrors.ErrIneligibleState)
	}
	return doc, nil
}

// linesFromRequests maps incoming line payloads to domain lines. Amounts and
// sequence numbers are derived afterwards.
func linesFromRequests(reqs []dto.LineRequest) []domain.DocumentLine {
	lines := make([]domain.DocumentLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.DocumentLine{
			Description:  r.Description,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
			UnitPrice:    r.UnitPrice,
			MaterialRef:  r.MaterialRef,
			OperationRef: r.OperationRef,
		}
	}
	return lines
}
