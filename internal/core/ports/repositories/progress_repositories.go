package repositories

import (
	"context"
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
)

// ProgressRepositoryFacade persists the derived completion state of work orders.
type ProgressRepositoryFacade interface {
	GetProgress(ctx context.Context, workOrderID string) (*domain.ProgressRecord, error)
	// SaveProgress inserts or overwrites the completion record of a work order.
	SaveProgress(ctx context.Context, record *domain.ProgressRecord) error
	// ForceProgressDone pins the work order's completion at 100 percent.
	ForceProgressDone(ctx context.Context, workOrderID string, at time.Time) error
}
