package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
)

// SchedulingRepository persists work-order assignments and work-center
// reservations using pgx.
type SchedulingRepository struct {
	*BaseRepository
}

var _ portsrepo.SchedulingRepositoryFacade = (*SchedulingRepository)(nil)

// NewSchedulingRepository creates a new scheduling repository.
func NewSchedulingRepository(pool *pgxpool.Pool) *SchedulingRepository {
	return &SchedulingRepository{BaseRepository: NewBaseRepository(pool)}
}

func (r *SchedulingRepository) CreateAssignment(ctx context.Context, assignment *domain.WorkOrderAssignment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO work_order_assignments (assignment_id, work_order_id, employee_ref, status, assigned_at, assigned_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		assignment.AssignmentID, assignment.WorkOrderID, assignment.EmployeeRef,
		assignment.Status, assignment.AssignedAt, nullable(assignment.AssignedBy))
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

func (r *SchedulingRepository) CreateReservation(ctx context.Context, reservation *domain.WorkCenterReservation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO work_center_reservations (reservation_id, work_order_id, work_center_ref, status, reserved_at, planned_for, released_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reservation.ReservationID, reservation.WorkOrderID, reservation.WorkCenterRef,
		reservation.Status, reservation.ReservedAt, reservation.PlannedFor, reservation.ReleasedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

// ReleaseReservations frees every held reservation of a work order.
func (r *SchedulingRepository) ReleaseReservations(ctx context.Context, workOrderID string, releasedAt time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE work_center_reservations SET status = $2, released_at = $3
		 WHERE work_order_id = $1 AND status = $4`,
		workOrderID, domain.ReservationReleased, releasedAt, domain.ReservationHeld)
	if err != nil {
		return 0, fmt.Errorf("failed to release reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SchedulingRepository) ListAssignments(ctx context.Context, workOrderID string) ([]domain.WorkOrderAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT assignment_id, work_order_id, employee_ref, status, assigned_at, assigned_by
		 FROM work_order_assignments WHERE work_order_id = $1 ORDER BY assigned_at`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.WorkOrderAssignment
	for rows.Next() {
		var a domain.WorkOrderAssignment
		var assignedBy *string
		if err := rows.Scan(&a.AssignmentID, &a.WorkOrderID, &a.EmployeeRef, &a.Status, &a.AssignedAt, &assignedBy); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.AssignedBy = deref(assignedBy)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

func (r *SchedulingRepository) ListReservations(ctx context.Context, workOrderID string) ([]domain.WorkCenterReservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT reservation_id, work_order_id, work_center_ref, status, reserved_at, planned_for, released_at
		 FROM work_center_reservations WHERE work_order_id = $1 ORDER BY reserved_at`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.WorkCenterReservation
	for rows.Next() {
		var res domain.WorkCenterReservation
		if err := rows.Scan(&res.ReservationID, &res.WorkOrderID, &res.WorkCenterRef, &res.Status, &res.ReservedAt, &res.PlannedFor, &res.ReleasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}
	return reservations, nil
}
