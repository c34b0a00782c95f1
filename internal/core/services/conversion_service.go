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
	"github.com/shopmetal/workdoc_app/internal/core/validation"
	"github.com/shopmetal/workdoc_app/internal/dto"
	"github.com/shopmetal/workdoc_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// defaultPaymentTerms applies to purchase orders created by conversion when
// the caller supplies none.
const defaultPaymentTerms = "30 days net"

// conversionService turns accepted documents into successor documents.
type conversionService struct {
	repo         portsrepo.DocumentRepositoryFacade
	projects     portssvc.ProjectCreator
	leadTimeDays int
	now          func() time.Time
}

var _ portssvc.ConversionSvcFacade = (*conversionService)(nil)

// NewConversionService creates a new conversion service. leadTimeDays is the
// default purchase-order lead time; a nil clock defaults to UTC wall time.
func NewConversionService(repo portsrepo.DocumentRepositoryFacade, projects portssvc.ProjectCreator, leadTimeDays int, now func() time.Time) portssvc.ConversionSvcFacade {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &conversionService{
		repo:         repo,
		projects:     projects,
		leadTimeDays: leadTimeDays,
		now:          now,
	}
}

func (s *conversionService) PurchaseRequestToOrder(ctx context.Context, sourceID string, actorID string, req dto.ConvertPurchaseRequestRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.eligibleSource(ctx, sourceID, domain.PurchaseRequest, domain.StatusValidated, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	nowTime := s.now()
	dueAt := req.DueAt
	if dueAt == nil {
		due := nowTime.AddDate(0, 0, s.leadTimeDays)
		dueAt = &due
	}
	paymentTerms := req.PaymentTerms
	if paymentTerms == "" {
		paymentTerms = defaultPaymentTerms
	}
	notes := req.Notes
	if notes == "" {
		notes = source.Notes
	}

	successor := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.PurchaseOrder,
		Status:     domain.StatusDraft,
		Priority:   source.Priority,
		ProjectRef: source.ProjectRef,
		PartnerRef: source.PartnerRef,
		OwnerRef:   actorID,
		DueAt:      dueAt,
		Notes:      notes,
		Metadata: domain.Metadata{
			PurchaseOrder: &domain.PurchaseOrderMeta{
				PaymentTerms:     paymentTerms,
				DeliveryAddress:  req.DeliveryAddress,
				DeliveryLeadDays: s.leadTimeDays,
			},
			Conversion: &domain.ConversionMeta{
				SourceDocumentID: source.DocumentID,
				SourceNumber:     source.Number,
				ConvertedAt:      nowTime,
			},
		},
		Lines: copyLines(source.Lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     nowTime,
			CreatedBy:     actorID,
			LastUpdatedAt: nowTime,
			LastUpdatedBy: actorID,
		},
	}
	successor.RecomputeTotal(successor.Lines)
	relinkLines(successor)

	if err := s.writeConversion(ctx, source, successor, actorID, ""); err != nil {
		return nil, err
	}
	logger.Info("purchase request converted", "sourceNumber", source.Number, "orderNumber", successor.Number)
	return successor, nil
}

func (s *conversionService) PriceRequestToOrder(ctx context.Context, sourceID string, actorID string, req dto.AwardPriceRequestRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.eligibleSource(ctx, sourceID, domain.PriceRequest, domain.StatusSent, domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	if len(source.Lines) == 0 {
		return nil, apperrors.NewValidationError([]string{fmt.Sprintf("price request %s has no lines to re-price", source.Number)})
	}
	if !req.FinalPrice.IsPositive() {
		return nil, apperrors.NewValidationError([]string{"negotiated final price must be positive"})
	}
	if meta := source.Metadata.PriceRequest; meta != nil && len(meta.InvitedSupplierRefs) > 0 {
		invited := false
		for _, ref := range meta.InvitedSupplierRefs {
			if ref == req.AwardedPartnerRef {
				invited = true
				break
			}
		}
		if !invited {
			return nil, apperrors.NewValidationError([]string{fmt.Sprintf("partner %q was not invited to %s", req.AwardedPartnerRef, source.Number)})
		}
	}

	nowTime := s.now()
	due := nowTime.AddDate(0, 0, req.DeliveryDays)
	paymentTerms := req.PaymentTerms
	if paymentTerms == "" {
		paymentTerms = defaultPaymentTerms
	}

	successor := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.PurchaseOrder,
		Status:     domain.StatusDraft,
		Priority:   source.Priority,
		ProjectRef: source.ProjectRef,
		PartnerRef: req.AwardedPartnerRef,
		OwnerRef:   actorID,
		DueAt:      &due,
		Notes:      source.Notes,
		Metadata: domain.Metadata{
			PurchaseOrder: &domain.PurchaseOrderMeta{
				PaymentTerms:     paymentTerms,
				DeliveryAddress:  req.DeliveryAddress,
				DeliveryLeadDays: req.DeliveryDays,
			},
			Conversion: &domain.ConversionMeta{
				SourceDocumentID:  source.DocumentID,
				SourceNumber:      source.Number,
				AwardedPartnerRef: req.AwardedPartnerRef,
				ConvertedAt:       nowTime,
			},
		},
		Lines: repriceLines(source.Lines, req.FinalPrice),
		AuditFields: domain.AuditFields{
			CreatedAt:     nowTime,
			CreatedBy:     actorID,
			LastUpdatedAt: nowTime,
			LastUpdatedBy: actorID,
		},
	}
	successor.RecomputeTotal(successor.Lines)
	relinkLines(successor)

	if err := s.writeConversion(ctx, source, successor, actorID, req.Justification); err != nil {
		return nil, err
	}
	logger.Info("price request awarded", "sourceNumber", source.Number, "orderNumber", successor.Number, "partner", req.AwardedPartnerRef)
	return successor, nil
}

func (s *conversionService) QuoteToProjectSeed(ctx context.Context, sourceID string) (*domain.ProjectSeed, error) {
	source, err := s.eligibleSource(ctx, sourceID, domain.Quote, domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	return s.seedFromQuote(source), nil
}

func (s *conversionService) QuoteToProject(ctx context.Context, sourceID string, actorID string) (string, *domain.ProjectSeed, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.eligibleSource(ctx, sourceID, domain.Quote, domain.StatusApproved)
	if err != nil {
		return "", nil, err
	}
	seed := s.seedFromQuote(source)

	projectID, err := s.projects.CreateProject(ctx, *seed)
	if err != nil {
		logger.Error("project collaborator rejected quote conversion", "quoteNumber", source.Number, "error", err)
		return "", nil, fmt.Errorf("failed to create project from quote %s: %w", source.Number, err)
	}

	// only after the collaborator confirmed creation does the quote complete
	nowTime := s.now()
	meta := source.Metadata
	meta.Conversion = &domain.ConversionMeta{
		SuccessorDocumentID: projectID,
		ConvertedAt:         nowTime,
	}
	if err := s.repo.UpdateMetadata(ctx, source.DocumentID, meta); err != nil {
		logger.Warn("failed to link quote to project", "quoteNumber", source.Number, "projectID", projectID, "error", err)
	}
	audit := domain.AuditRecord{
		AuditID:        uuid.NewString(),
		DocumentID:     source.DocumentID,
		Kind:           domain.AuditConversion,
		ActorRef:       actorID,
		PreviousStatus: source.Status,
		NewStatus:      domain.StatusDone,
		Comment:        fmt.Sprintf("Converted to project %s", projectID),
		RecordedAt:     nowTime,
	}
	if err := s.repo.UpdateStatus(ctx, source.DocumentID, domain.StatusDone, audit); err != nil {
		logger.Error("project created but quote not marked done", "quoteNumber", source.Number, "projectID", projectID, "error", err)
		return "", nil, fmt.Errorf("project %s created but quote %s could not be completed: %w", projectID, source.Number, err)
	}

	logger.Info("quote converted to project", "quoteNumber", source.Number, "projectID", projectID)
	return projectID, seed, nil
}

func (s *conversionService) NewRevision(ctx context.Context, sourceID string, actorID string, req dto.NewRevisionRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.repo.FindDocumentByID(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", sourceID, err)
	}
	if req.PriceAdjustmentPercent != nil && req.PriceAdjustmentAmount != nil {
		return nil, apperrors.NewValidationError([]string{"at most one price adjustment may be given"})
	}

	lines := copyLines(source.Lines)
	if req.PriceAdjustmentPercent != nil {
		factor := decimal.NewFromFloat(1 + *req.PriceAdjustmentPercent/100)
		if !factor.IsPositive() {
			return nil, apperrors.NewValidationError([]string{"price adjustment may not reduce prices below zero"})
		}
		scaleLinePrices(lines, factor)
	} else if req.PriceAdjustmentAmount != nil {
		total := domain.TotalOfLines(lines)
		if total.IsZero() {
			return nil, apperrors.NewValidationError([]string{"absolute price adjustment requires a non-zero document total"})
		}
		factor := total.Add(*req.PriceAdjustmentAmount).Div(total)
		if !factor.IsPositive() {
			return nil, apperrors.NewValidationError([]string{"price adjustment may not reduce prices below zero"})
		}
		scaleLinePrices(lines, factor)
	}

	nowTime := s.now()
	number := domain.NextRevisionNumber(source.Number)
	revision := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       source.Kind,
		Number:     number,
		Status:     domain.StatusDraft,
		Priority:   source.Priority,
		ProjectRef: source.ProjectRef,
		PartnerRef: source.PartnerRef,
		OwnerRef:   actorID,
		DueAt:      source.DueAt,
		Notes:      source.Notes,
		Metadata:   source.Metadata,
		Lines:      lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     nowTime,
			CreatedBy:     actorID,
			LastUpdatedAt: nowTime,
			LastUpdatedBy: actorID,
		},
	}
	if req.Notes != "" {
		revision.Notes = req.Notes
	}
	if req.DueAt != nil {
		revision.DueAt = req.DueAt
	}
	revision.Metadata.Conversion = nil
	revision.Metadata.Revision = &domain.RevisionMeta{
		PreviousDocumentID: source.DocumentID,
		PreviousNumber:     source.Number,
		Version:            domain.RevisionOfNumber(number),
		Reason:             req.Reason,
	}
	revision.RecomputeTotal(lines)
	relinkLines(revision)

	creation := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		DocumentID: revision.DocumentID,
		Kind:       domain.AuditCreation,
		ActorRef:   actorID,
		NewStatus:  domain.StatusDraft,
		Comment:    fmt.Sprintf("Revision v%d of %s", revision.Metadata.Revision.Version, source.Number),
		RecordedAt: nowTime,
	}
	if err := s.repo.SaveDocument(ctx, revision, creation); err != nil {
		logger.Error("failed to save revision", "sourceNumber", source.Number, "error", err)
		return nil, fmt.Errorf("failed to save revision of %s: %w", source.Number, err)
	}

	revision.AuditTrail = []domain.AuditRecord{creation}
	logger.Info("revision created", "sourceNumber", source.Number, "number", revision.Number)
	return revision, nil
}

// eligibleSource loads a document and checks its kind and status qualify it
// as a conversion source.
func (s *conversionService) eligibleSource(ctx context.Context, sourceID string, kind domain.DocumentKind, statuses ...domain.DocumentStatus) (*domain.Document, error) {
	source, err := s.repo.FindDocumentByID(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", sourceID, err)
	}
	if source.Kind != kind {
		return nil, apperrors.NewValidationError([]string{fmt.Sprintf("document %s is a %s, not a %s", source.Number, source.Kind, kind)})
	}
	for _, status := range statuses {
		if source.Status == status {
			return source, nil
		}
	}
	return nil, fmt.Errorf("document %s is %s: %w", source.Number, source.Status, apperrors.ErrIneligibleState)
}

// writeConversion persists the successor, then links and completes the source.
func (s *conversionService) writeConversion(ctx context.Context, source, successor *domain.Document, actorID, comment string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if violations := validation.ValidateLines(successor.Lines); len(violations) > 0 {
		return apperrors.NewValidationError(violations)
	}

	nowTime := s.now()
	creation := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		DocumentID: successor.DocumentID,
		Kind:       domain.AuditConversion,
		ActorRef:   actorID,
		NewStatus:  domain.StatusDraft,
		Comment:    fmt.Sprintf("Created from %s", source.Number),
		RecordedAt: nowTime,
	}
	if err := s.repo.SaveDocument(ctx, successor, creation); err != nil {
		return fmt.Errorf("failed to save converted document: %w", err)
	}
	successor.AuditTrail = []domain.AuditRecord{creation}

	meta := source.Metadata
	conversion := domain.ConversionMeta{
		SuccessorDocumentID: successor.DocumentID,
		SuccessorNumber:     successor.Number,
		ConvertedAt:         nowTime,
	}
	if successor.Metadata.Conversion != nil {
		conversion.AwardedPartnerRef = successor.Metadata.Conversion.AwardedPartnerRef
	}
	meta.Conversion = &conversion
	if err := s.repo.UpdateMetadata(ctx, source.DocumentID, meta); err != nil {
		logger.Warn("failed to link source to successor", "sourceNumber", source.Number, "error", err)
	}

	auditComment := fmt.Sprintf("Converted to %s", successor.Number)
	if comment != "" {
		auditComment = fmt.Sprintf("%s (%s)", auditComment, comment)
	}
	audit := domain.AuditRecord{
		AuditID:        uuid.NewString(),
		DocumentID:     source.DocumentID,
		Kind:           domain.AuditConversion,
		ActorRef:       actorID,
		PreviousStatus: source.Status,
		NewStatus:      domain.StatusDone,
		Comment:        auditComment,
		RecordedAt:     nowTime,
	}
	if err := s.repo.UpdateStatus(ctx, source.DocumentID, domain.StatusDone, audit); err != nil {
		return fmt.Errorf("converted document %s saved but source %s could not be completed: %w", successor.Number, source.Number, err)
	}
	return nil
}

// seedFromQuote derives the project-creation payload from an approved quote.
func (s *conversionService) seedFromQuote(source *domain.Document) *domain.ProjectSeed {
	seed := &domain.ProjectSeed{
		Name:           fmt.Sprintf("Project %s", source.Number),
		ClientRef:      source.PartnerRef,
		Status:         domain.ProjectSeedStatus,
		EstimatedPrice: source.TotalAmount,
		SourceQuoteRef: source.Number,
	}
	if meta := source.Metadata.Quote; meta != nil && meta.ExecutionDelayDays > 0 {
		planned := s.now().AddDate(0, 0, meta.ExecutionDelayDays)
		seed.PlannedEndAt = &planned
	}
	return seed
}

// copyLines clones a line set; ids are reassigned by relinkLines.
func copyLines(lines []domain.DocumentLine) []domain.DocumentLine {
	out := make([]domain.DocumentLine, len(lines))
	copy(out, lines)
	return out
}

// relinkLines gives every line a fresh identity under its new parent.
func relinkLines(doc *domain.Document) {
	for i := range doc.Lines {
		doc.Lines[i].LineID = uuid.NewString()
		doc.Lines[i].DocumentID = doc.DocumentID
	}
}

// scaleLinePrices multiplies every unit price by factor and rederives amounts.
func scaleLinePrices(lines []domain.DocumentLine, factor decimal.Decimal) {
	for i := range lines {
		lines[i].UnitPrice = lines[i].UnitPrice.Mul(factor)
		lines[i].ComputeAmount()
	}
}

// repriceLines distributes a negotiated final price across lines in
// proportion to each line's quantity share. When the total quantity is zero
// the whole price lands on the first line as a single lot.
func repriceLines(lines []domain.DocumentLine, finalPrice decimal.Decimal) []domain.DocumentLine {
	out := copyLines(lines)
	totalQty := decimal.Zero
	for i := range out {
		totalQty = totalQty.Add(out[i].Quantity)
	}

	if totalQty.IsPositive() {
		for i := range out {
			lineAmount := finalPrice.Mul(out[i].Quantity).Div(totalQty)
			if out[i].Quantity.IsPositive() {
				out[i].UnitPrice = lineAmount.Div(out[i].Quantity)
			} else {
				out[i].UnitPrice = decimal.Zero
			}
			out[i].ComputeAmount()
		}
		return out
	}

	for i := range out {
		out[i].UnitPrice = decimal.Zero
		out[i].LineAmount = decimal.Zero
	}
	out[0].Quantity = decimal.NewFromInt(1)
	if out[0].Unit == "" {
		out[0].Unit = "LOT"
	}
	out[0].UnitPrice = finalPrice
	out[0].ComputeAmount()
	return out
}
