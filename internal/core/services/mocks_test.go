package services_test

import (
	"context"
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDocumentRepository is a mock type for the DocumentRepositoryFacade interface
type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) StatisticsByKind(ctx context.Context) ([]domain.KindStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KindStatistics), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc *domain.Document, creation domain.AuditRecord) error {
	args := m.Called(ctx, doc, creation)
	return args.Error(0)
}

func (m *MockDocumentRepository) NextNumber(ctx context.Context, kind domain.DocumentKind, year int) (string, error) {
	args := m.Called(ctx, kind, year)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, documentID string, status domain.DocumentStatus, audit domain.AuditRecord) error {
	args := m.Called(ctx, documentID, status, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) ReplaceLines(ctx context.Context, documentID string, lines []domain.DocumentLine, total decimal.Decimal, updatedBy string) error {
	args := m.Called(ctx, documentID, lines, total, updatedBy)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, documentID string, metadata domain.Metadata) error {
	args := m.Called(ctx, documentID, metadata)
	return args.Error(0)
}

func (m *MockDocumentRepository) AppendAudit(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockTimeEntryRepository is a mock type for the TimeEntryRepositoryFacade interface
type MockTimeEntryRepository struct {
	mock.Mock
}

var _ portsrepo.TimeEntryRepositoryFacade = (*MockTimeEntryRepository)(nil)

func (m *MockTimeEntryRepository) FindOpenEntryByEmployee(ctx context.Context, employeeRef string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, employeeRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListEntriesForWorkOrder(ctx context.Context, workOrderRef string) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, workOrderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) SummarizeWorkOrder(ctx context.Context, workOrderRef string) (*domain.WorkOrderEffort, error) {
	args := m.Called(ctx, workOrderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrderEffort), args.Error(1)
}

func (m *MockTimeEntryRepository) FindOpenEntriesOlderThan(ctx context.Context, cutoff time.Time) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindClosedEntriesWithoutHours(ctx context.Context) ([]domain.TimeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindEntriesWithMissingWorkOrder(ctx context.Context) ([]domain.TimeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindEntriesMissingCost(ctx context.Context) ([]domain.TimeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListWorkOrdersWithCost(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTimeEntryRepository) CreateOpenEntry(ctx context.Context, entry *domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) CloseEntry(ctx context.Context, entryID string, punchOut time.Time, hours, cost decimal.Decimal, notes string) error {
	args := m.Called(ctx, entryID, punchOut, hours, cost, notes)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) RepairEntry(ctx context.Context, entryID string, rate, hours, cost decimal.Decimal) error {
	args := m.Called(ctx, entryID, rate, hours, cost)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) DeleteEntries(ctx context.Context, entryIDs []string) (int64, error) {
	args := m.Called(ctx, entryIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockSchedulingRepository is a mock type for the SchedulingRepositoryFacade interface
type MockSchedulingRepository struct {
	mock.Mock
}

var _ portsrepo.SchedulingRepositoryFacade = (*MockSchedulingRepository)(nil)

func (m *MockSchedulingRepository) ListAssignments(ctx context.Context, workOrderID string) ([]domain.WorkOrderAssignment, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrderAssignment), args.Error(1)
}

func (m *MockSchedulingRepository) ListReservations(ctx context.Context, workOrderID string) ([]domain.WorkCenterReservation, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkCenterReservation), args.Error(1)
}

func (m *MockSchedulingRepository) CreateAssignment(ctx context.Context, assignment *domain.WorkOrderAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockSchedulingRepository) CreateReservation(ctx context.Context, reservation *domain.WorkCenterReservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockSchedulingRepository) ReleaseReservations(ctx context.Context, workOrderID string, releasedAt time.Time) (int64, error) {
	args := m.Called(ctx, workOrderID, releasedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockProgressRepository is a mock type for the ProgressRepositoryFacade interface
type MockProgressRepository struct {
	mock.Mock
}

var _ portsrepo.ProgressRepositoryFacade = (*MockProgressRepository)(nil)

func (m *MockProgressRepository) GetProgress(ctx context.Context, workOrderID string) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) SaveProgress(ctx context.Context, record *domain.ProgressRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProgressRepository) ForceProgressDone(ctx context.Context, workOrderID string, at time.Time) error {
	args := m.Called(ctx, workOrderID, at)
	return args.Error(0)
}

// MockDirectoryReader is a mock type for the DirectoryReader interface
type MockDirectoryReader struct {
	mock.Mock
}

var _ portsrepo.DirectoryReader = (*MockDirectoryReader)(nil)

func (m *MockDirectoryReader) EmployeeExists(ctx context.Context, employeeRef string) (bool, error) {
	args := m.Called(ctx, employeeRef)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectoryReader) PartnerExists(ctx context.Context, partnerRef string) (bool, error) {
	args := m.Called(ctx, partnerRef)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectoryReader) WorkCenterRate(ctx context.Context, workCenterRef string) (decimal.Decimal, error) {
	args := m.Called(ctx, workCenterRef)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockProjectCreator is a mock type for the ProjectCreator interface
type MockProjectCreator struct {
	mock.Mock
}

var _ portssvc.ProjectCreator = (*MockProjectCreator)(nil)

func (m *MockProjectCreator) CreateProject(ctx context.Context, seed domain.ProjectSeed) (string, error) {
	args := m.Called(ctx, seed)
	return args.String(0), args.Error(1)
}

// decimalEqual matches a decimal argument by value rather than representation.
func decimalEqual(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return got.Equal(want)
	})
}
