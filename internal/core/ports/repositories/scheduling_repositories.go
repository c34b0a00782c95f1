package repositories

import (
	"context"
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
)

// SchedulingReader defines read operations for work-order assignments and
// work-center reservations.
type SchedulingReader interface {
	ListAssignments(ctx context.Context, workOrderID string) ([]domain.WorkOrderAssignment, error)
	ListReservations(ctx context.Context, workOrderID string) ([]domain.WorkCenterReservation, error)
}

// SchedulingWriter defines write operations for assignments and reservations.
type SchedulingWriter interface {
	CreateAssignment(ctx context.Context, assignment *domain.WorkOrderAssignment) error
	CreateReservation(ctx context.Context, reservation *domain.WorkCenterReservation) error
	// ReleaseReservations frees every held reservation of a work order and
	// returns how many were released.
	ReleaseReservations(ctx context.Context, workOrderID string, releasedAt time.Time) (int64, error)
}

// SchedulingRepositoryFacade combines scheduling reader and writer.
type SchedulingRepositoryFacade interface {
	SchedulingReader
	SchedulingWriter
}
