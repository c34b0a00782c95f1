package services

import (
	"context"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopmetal/workdoc_app/internal/dto"
)

// ConversionSvcFacade turns accepted documents into their successor documents.
type ConversionSvcFacade interface {
	// PurchaseRequestToOrder converts a VALIDATED or APPROVED purchase request
	// into a purchase order, copying lines verbatim.
	PurchaseRequestToOrder(ctx context.Context, sourceID string, actorID string, req dto.ConvertPurchaseRequestRequest) (*domain.Document, error)
	// PriceRequestToOrder converts an awarded price request into a purchase
	// order, re-pricing lines proportionally to quantity share.
	PriceRequestToOrder(ctx context.Context, sourceID string, actorID string, req dto.AwardPriceRequestRequest) (*domain.Document, error)
	// QuoteToProjectSeed derives the project-creation payload from an approved
	// quote without mutating anything.
	QuoteToProjectSeed(ctx context.Context, sourceID string) (*domain.ProjectSeed, error)
	// QuoteToProject hands the seed to the project collaborator and marks the
	// quote DONE only after the collaborator confirms creation.
	QuoteToProject(ctx context.Context, sourceID string, actorID string) (string, *domain.ProjectSeed, error)
	// NewRevision spawns a DRAFT copy of a document under the next revision
	// suffix, applying the requested price adjustments.
	NewRevision(ctx context.Context, sourceID string, actorID string, req dto.NewRevisionRequest) (*domain.Document, error)
}

// ProjectCreator is the external project collaborator. CreateProject returns
// the id of the created project.
type ProjectCreator interface {
	CreateProject(ctx context.Context, seed domain.ProjectSeed) (string, error)
}
