package services

import (
	"context"
	"time"

	"github.com/shopmetal/workdoc_app/internal/dto"
)

// ReconcilerSvcFacade recomputes work-order progress from the labor ledger
// and cleans up the ledger itself.
type ReconcilerSvcFacade interface {
	RecomputeProgress(ctx context.Context, workOrderRef string) (float64, error)
	RecomputeAll(ctx context.Context) (*dto.RecomputeAllResponse, error)
	Synchronize(ctx context.Context) (*dto.SynchronizeResponse, error)
	PurgeOrphans(ctx context.Context, maxOpenAge time.Duration) (*dto.PurgeResponse, error)
	MarkDone(ctx context.Context, workOrderRef string, actorID, comment string) error
}
