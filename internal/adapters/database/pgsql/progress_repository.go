package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopmetal/workdoc_app/internal/apperrors"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
)

// ProgressRepository persists the derived completion records of work orders.
type ProgressRepository struct {
	*BaseRepository
}

var _ portsrepo.ProgressRepositoryFacade = (*ProgressRepository)(nil)

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{BaseRepository: NewBaseRepository(pool)}
}

func (r *ProgressRepository) GetProgress(ctx context.Context, workOrderID string) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	err := r.pool.QueryRow(ctx,
		`SELECT work_order_id, percentage, worked_hours, estimated_hours, updated_at
		 FROM work_order_progress WHERE work_order_id = $1`, workOrderID).
		Scan(&record.WorkOrderID, &record.Percentage, &record.WorkedHours, &record.EstimatedHours, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("progress of work order %s: %w", workOrderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	return &record, nil
}

// SaveProgress inserts or overwrites the completion record of a work order.
func (r *ProgressRepository) SaveProgress(ctx context.Context, record *domain.ProgressRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO work_order_progress (work_order_id, percentage, worked_hours, estimated_hours, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (work_order_id)
		 DO UPDATE SET percentage = EXCLUDED.percentage, worked_hours = EXCLUDED.worked_hours,
		               estimated_hours = EXCLUDED.estimated_hours, updated_at = EXCLUDED.updated_at`,
		record.WorkOrderID, record.Percentage, record.WorkedHours, record.EstimatedHours, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// ForceProgressDone pins the work order's completion at 100 percent.
func (r *ProgressRepository) ForceProgressDone(ctx context.Context, workOrderID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO work_order_progress (work_order_id, percentage, worked_hours, estimated_hours, updated_at)
		 VALUES ($1, 100, 0, NULL, $2)
		 ON CONFLICT (work_order_id)
		 DO UPDATE SET percentage = 100, updated_at = EXCLUDED.updated_at`,
		workOrderID, at)
	if err != nil {
		return fmt.Errorf("failed to pin progress at 100: %w", err)
	}
	return nil
}
