package repositories

import (
	"context"
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TimeEntryReader defines read operations for labor punch sessions.
type TimeEntryReader interface {
	FindOpenEntryByEmployee(ctx context.Context, employeeRef string) (*domain.TimeEntry, error)
	ListEntriesForWorkOrder(ctx context.Context, workOrderRef string) ([]domain.TimeEntry, error)
	// SummarizeWorkOrder aggregates hours and cost over closed entries.
	SummarizeWorkOrder(ctx context.Context, workOrderRef string) (*domain.WorkOrderEffort, error)
	// FindOpenEntriesOlderThan returns open entries whose punch-in precedes the cutoff.
	FindOpenEntriesOlderThan(ctx context.Context, cutoff time.Time) ([]domain.TimeEntry, error)
	// FindClosedEntriesWithoutHours returns closed entries whose hours are null or zero.
	FindClosedEntriesWithoutHours(ctx context.Context) ([]domain.TimeEntry, error)
	// FindEntriesWithMissingWorkOrder returns entries whose work-order reference
	// no longer resolves to a document.
	FindEntriesWithMissingWorkOrder(ctx context.Context) ([]domain.TimeEntry, error)
	// FindEntriesMissingCost returns closed entries lacking a rate or a cost.
	FindEntriesMissingCost(ctx context.Context) ([]domain.TimeEntry, error)
	// ListWorkOrdersWithCost returns the distinct work-order refs that carry at
	// least one closed entry with a positive cost.
	ListWorkOrdersWithCost(ctx context.Context) ([]string, error)
}

// TimeEntryWriter defines write operations for labor punch sessions.
type TimeEntryWriter interface {
	// CreateOpenEntry inserts an open entry. The check for an existing open
	// entry and the insert happen in one transaction; a concurrent duplicate
	// surfaces as apperrors.ErrAlreadyPunchedIn.
	CreateOpenEntry(ctx context.Context, entry *domain.TimeEntry) error
	// CloseEntry stamps punch-out, hours and cost on an open entry. Returns
	// apperrors.ErrNoOpenEntry when the entry is already closed or missing.
	CloseEntry(ctx context.Context, entryID string, punchOut time.Time, hours, cost decimal.Decimal, notes string) error
	// RepairEntry rewrites rate, hours and cost on an entry during reconciliation.
	RepairEntry(ctx context.Context, entryID string, rate, hours, cost decimal.Decimal) error
	DeleteEntries(ctx context.Context, entryIDs []string) (int64, error)
}

// TimeEntryRepositoryFacade combines time entry reader and writer.
type TimeEntryRepositoryFacade interface {
	TimeEntryReader
	TimeEntryWriter
}
