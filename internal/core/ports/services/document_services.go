package services

import (
	"context"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
	"github.com/shopmetal/workdoc_app/internal/dto"
)

// DocumentSvcFacade is the document lifecycle service consumed by handlers
// and by the other engine services.
type DocumentSvcFacade interface {
	CreateDocument(ctx context.Context, actorID string, req dto.CreateDocumentRequest) (*domain.Document, error)
	GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, error)
	ListDocumentsFiltered(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.Document, error)
	NextNumber(ctx context.Context, kind domain.DocumentKind) (string, error)
	SetStatus(ctx context.Context, documentID string, newStatus domain.DocumentStatus, actorID, comment string) (*domain.Document, error)
	ReplaceLines(ctx context.Context, documentID string, actorID string, req dto.ReplaceLinesRequest) (*domain.Document, error)
	DuplicateDocument(ctx context.Context, documentID string, actorID string, req dto.DuplicateDocumentRequest) (*domain.Document, error)
	Statistics(ctx context.Context) ([]domain.KindStatistics, error)
	AssignEmployees(ctx context.Context, workOrderID string, actorID string, employeeRefs []string) ([]domain.WorkOrderAssignment, error)
	ReserveWorkCenters(ctx context.Context, workOrderID string, actorID string, req dto.ReserveWorkCentersRequest) ([]domain.WorkCenterReservation, error)
	ListScheduling(ctx context.Context, workOrderID string) ([]domain.WorkOrderAssignment, []domain.WorkCenterReservation, error)
}
