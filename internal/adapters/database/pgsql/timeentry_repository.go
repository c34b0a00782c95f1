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
	"github.com/shopspring/decimal"
)

const timeEntryColumns = `entry_id, employee_ref, work_order_ref, project_ref, punch_in, punch_out,
	hourly_rate, total_hours, total_cost, notes, created_at, created_by, last_updated_at, last_updated_by`

// TimeEntryRepository implements labor session persistence using pgx.
type TimeEntryRepository struct {
	*BaseRepository
}

var _ portsrepo.TimeEntryRepositoryFacade = (*TimeEntryRepository)(nil)

// NewTimeEntryRepository creates a new time entry repository.
func NewTimeEntryRepository(pool *pgxpool.Pool) *TimeEntryRepository {
	return &TimeEntryRepository{BaseRepository: NewBaseRepository(pool)}
}

// CreateOpenEntry inserts an open entry after locking the employee's open
// session check inside the same transaction. The partial unique index on
// open entries backstops concurrent inserts that race past the check.
func (r *TimeEntryRepository) CreateOpenEntry(ctx context.Context, entry *domain.TimeEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing string
	err = tx.QueryRow(ctx,
		`SELECT entry_id FROM time_entries WHERE employee_ref = $1 AND punch_out IS NULL FOR UPDATE`,
		entry.EmployeeRef).Scan(&existing)
	if err == nil {
		return fmt.Errorf("open entry %s exists: %w", existing, apperrors.ErrAlreadyPunchedIn)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check open entries: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO time_entries (`+timeEntryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		entry.EntryID, entry.EmployeeRef, nullable(entry.WorkOrderRef), nullable(entry.ProjectRef),
		entry.PunchIn, entry.PunchOut, entry.HourlyRate, entry.TotalHours, entry.TotalCost,
		entry.Notes, entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err, "time_entries_one_open_per_employee") {
			return fmt.Errorf("employee %s: %w", entry.EmployeeRef, apperrors.ErrAlreadyPunchedIn)
		}
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return tx.Commit(ctx)
}

// CloseEntry stamps punch-out, hours and cost on an open entry.
func (r *TimeEntryRepository) CloseEntry(ctx context.Context, entryID string, punchOut time.Time, hours, cost decimal.Decimal, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE time_entries
		 SET punch_out = $2, total_hours = $3, total_cost = $4, notes = $5, last_updated_at = $6
		 WHERE entry_id = $1 AND punch_out IS NULL`,
		entryID, punchOut, hours, cost, notes, punchOut)
	if err != nil {
		return fmt.Errorf("failed to close time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("time entry %s: %w", entryID, apperrors.ErrNoOpenEntry)
	}
	return nil
}

// RepairEntry rewrites rate, hours and cost during reconciliation.
func (r *TimeEntryRepository) RepairEntry(ctx context.Context, entryID string, rate, hours, cost decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE time_entries
		 SET hourly_rate = $2, total_hours = $3, total_cost = $4, last_updated_at = $5
		 WHERE entry_id = $1`,
		entryID, rate, hours, cost, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to repair time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("time entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteEntries removes the given entries and reports how many went away.
func (r *TimeEntryRepository) DeleteEntries(ctx context.Context, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM time_entries WHERE entry_id = ANY($1)`, entryIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete time entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindOpenEntryByEmployee returns the employee's open session, or ErrNotFound.
func (r *TimeEntryRepository) FindOpenEntryByEmployee(ctx context.Context, employeeRef string) (*domain.TimeEntry, error) {
	entry, err := scanTimeEntry(r.pool.QueryRow(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE employee_ref = $1 AND punch_out IS NULL`,
		employeeRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("open entry for employee %s: %w", employeeRef, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query open time entry: %w", err)
	}
	return entry, nil
}

// ListEntriesForWorkOrder returns every session booked on a work order.
func (r *TimeEntryRepository) ListEntriesForWorkOrder(ctx context.Context, workOrderRef string) ([]domain.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE work_order_ref = $1 ORDER BY punch_in`,
		workOrderRef)
}

// SummarizeWorkOrder aggregates hours and cost over closed sessions.
func (r *TimeEntryRepository) SummarizeWorkOrder(ctx context.Context, workOrderRef string) (*domain.WorkOrderEffort, error) {
	effort := &domain.WorkOrderEffort{WorkOrderRef: workOrderRef}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_hours), 0), COALESCE(SUM(total_cost), 0)
		 FROM time_entries WHERE work_order_ref = $1 AND punch_out IS NOT NULL`,
		workOrderRef).Scan(&effort.EntryCount, &effort.TotalHours, &effort.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize work order %s: %w", workOrderRef, err)
	}
	return effort, nil
}

// FindOpenEntriesOlderThan returns open entries punched in before the cutoff.
func (r *TimeEntryRepository) FindOpenEntriesOlderThan(ctx context.Context, cutoff time.Time) ([]domain.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE punch_out IS NULL AND punch_in < $1`,
		cutoff)
}

// FindClosedEntriesWithoutHours returns closed entries with null or zero hours.
func (r *TimeEntryRepository) FindClosedEntriesWithoutHours(ctx context.Context) ([]domain.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries
		 WHERE punch_out IS NOT NULL AND (total_hours IS NULL OR total_hours = 0)`)
}

// FindEntriesWithMissingWorkOrder returns entries whose work-order reference
// no longer resolves to a document.
func (r *TimeEntryRepository) FindEntriesWithMissingWorkOrder(ctx context.Context) ([]domain.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries te
		 WHERE te.work_order_ref IS NOT NULL
		   AND NOT EXISTS (SELECT 1 FROM documents d WHERE d.document_id = te.work_order_ref)`)
}

// FindEntriesMissingCost returns closed entries lacking a usable rate or cost.
func (r *TimeEntryRepository) FindEntriesMissingCost(ctx context.Context) ([]domain.TimeEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries
		 WHERE punch_out IS NOT NULL AND (total_cost IS NULL OR hourly_rate IS NULL OR hourly_rate = 0)`)
}

// ListWorkOrdersWithCost returns the distinct work orders carrying booked cost.
func (r *TimeEntryRepository) ListWorkOrdersWithCost(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT work_order_ref FROM time_entries
		 WHERE work_order_ref IS NOT NULL AND punch_out IS NOT NULL AND total_cost > 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to query work orders with cost: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan work order ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work order refs: %w", err)
	}
	return refs, nil
}

func (r *TimeEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.TimeEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}
	return entries, nil
}

func scanTimeEntry(row pgx.Row) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	var workOrderRef, projectRef *string
	err := row.Scan(&entry.EntryID, &entry.EmployeeRef, &workOrderRef, &projectRef,
		&entry.PunchIn, &entry.PunchOut, &entry.HourlyRate, &entry.TotalHours, &entry.TotalCost,
		&entry.Notes, &entry.CreatedAt, &entry.CreatedBy, &entry.LastUpdatedAt, &entry.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	entry.WorkOrderRef = deref(workOrderRef)
	entry.ProjectRef = deref(projectRef)
	return &entry, nil
}
