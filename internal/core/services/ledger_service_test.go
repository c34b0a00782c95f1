package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopmetal/workdoc_app/internal/apperrors"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopmetal/workdoc_app/internal/core/services"
	"github.com/shopmetal/workdoc_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockDocuments *MockDocumentRepository
	mockEntries   *MockTimeEntryRepository
	mockDirectory *MockDirectoryReader
	service       portssvc.LedgerSvcFacade
	now           time.Time
	defaultRate   decimal.Decimal
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockDocuments = new(MockDocumentRepository)
	suite.mockEntries = new(MockTimeEntryRepository)
	suite.mockDirectory = new(MockDirectoryReader)
	suite.now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	suite.defaultRate = decimal.NewFromInt(95)
	suite.service = services.NewLedgerService(suite.mockDocuments, suite.mockEntries, suite.mockDirectory, suite.defaultRate, func() time.Time { return suite.now })
}

func (suite *LedgerServiceTestSuite) workOrder(status domain.DocumentStatus) *domain.Document {
	return &domain.Document{
		DocumentID: "wo-1",
		Kind:       domain.WorkOrder,
		Number:     "BT-2025-001",
		Status:     status,
		Metadata: domain.Metadata{
			WorkOrder: &domain.WorkOrderMeta{WorkCenterRefs: []string{"wc-1"}},
		},
	}
}

func (suite *LedgerServiceTestSuite) TestPunchIn_UsesWorkCenterRate() {
	ctx := context.Background()
	suite.mockDocuments.On("FindDocumentByID", ctx, "wo-1").Return(suite.workOrder(domain.StatusApproved), nil).Once()
	suite.mockDirectory.On("WorkCenterRate", ctx, "wc-1").Return(decimal.NewFromInt(80), nil).Once()
	suite.mockEntries.On("CreateOpenEntry", ctx, mock.AnythingOfType("*domain.TimeEntry")).Return(nil).Once()

	entry, err := suite.service.PunchIn(ctx, dto.PunchInRequest{
		EmployeeRef:  "emp-001",
		WorkOrderRef: "wo-1",
	})

	suite.Require().NoError(err)
	suite.Equal("emp-001", entry.EmployeeRef)
	suite.Equal("wo-1", entry.WorkOrderRef)
	suite.Equal(suite.now, entry.PunchIn)
	suite.True(entry.HourlyRate.Equal(decimal.NewFromInt(80)))
	suite.True(entry.IsOpen())
	suite.mockEntries.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPunchIn_DefaultRateWithoutWorkCenters() {
	ctx := context.Background()
	wo := suite.workOrder(domain.StatusApproved)
	wo.Metadata.WorkOrder = nil
	suite.mockDocuments.On("FindDocumentByID", ctx, "wo-1").Return(wo, nil).Once()
	suite.mockEntries.On("CreateOpenEntry", ctx, mock.AnythingOfType("*domain.TimeEntry")).Return(nil).Once()

	entry, err := suite.service.PunchIn(ctx, dto.PunchInRequest{
		EmployeeRef:  "emp-001",
		WorkOrderRef: "wo-1",
	})

	suite.Require().NoError(err)
	suite.True(entry.HourlyRate.Equal(suite.defaultRate))
	suite.mockDirectory.AssertNotCalled(suite.T(), "WorkCenterRate", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPunchIn_RequiresReference() {
	_, err := suite.service.PunchIn(context.Background(), dto.PunchInRequest{EmployeeRef: "emp-001"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntries.AssertNotCalled(suite.T(), "CreateOpenEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPunchIn_TerminalWorkOrder() {
	ctx := context.Background()
	suite.mockDocuments.On("FindDocumentByID", ctx, "wo-1").Return(suite.workOrder(domain.StatusDone), nil).Once()

	_, err := suite.service.PunchIn(ctx, dto.PunchInRequest{
		EmployeeRef:  "emp-001",
		WorkOrderRef: "wo-1",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIneligibleState)
	suite.mockEntries.AssertNotCalled(suite.T(), "CreateOpenEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPunchIn_SecondSessionRejected() {
	ctx := context.Background()
	suite.mockDocuments.On("FindDocumentByID", ctx, "wo-1").Return(suite.workOrder(domain.StatusApproved), nil).Once()
	suite.mockDirectory.On("WorkCenterRate", ctx, "wc-1").Return(decimal.NewFromInt(80), nil).Once()
	suite.mockEntries.On("CreateOpenEntry", ctx, mock.AnythingOfType("*domain.TimeEntry")).Return(apperrors.ErrAlreadyPunchedIn).Once()

	_, err := suite.service.PunchIn(ctx, dto.PunchInRequest{
		EmployeeRef:  "emp-001",
		WorkOrderRef: "wo-1",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPunchedIn)
}

func (suite *LedgerServiceTestSuite) TestPunchOut_ComputesHoursAndCost() {
	ctx := context.Background()
	open := &domain.TimeEntry{
		EntryID:      "te-1",
		EmployeeRef:  "emp-001",
		WorkOrderRef: "wo-1",
		PunchIn:      suite.now.Add(-2 * time.Hour),
		HourlyRate:   decimal.NewFromInt(80),
	}
	suite.mockEntries.On("FindOpenEntryByEmployee", ctx, "emp-001").Return(open, nil).Once()
	suite.mockEntries.On("CloseEntry", ctx, "te-1", suite.now, decimalEqual(decimal.NewFromInt(2)), decimalEqual(decimal.NewFromInt(160)), "").Return(nil).Once()

	summary, err := suite.service.PunchOut(ctx, dto.PunchOutRequest{EmployeeRef: "emp-001"})

	suite.Require().NoError(err)
	suite.Equal("te-1", summary.EntryID)
	suite.True(summary.TotalHours.Equal(decimal.NewFromInt(2)))
	suite.True(summary.TotalCost.Equal(decimal.NewFromInt(160)))
	suite.Equal(suite.now, summary.PunchOut)
	suite.mockEntries.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPunchOut_NoOpenEntry() {
	ctx := context.Background()
	suite.mockEntries.On("FindOpenEntryByEmployee", ctx, "emp-001").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PunchOut(ctx, dto.PunchOutRequest{EmployeeRef: "emp-001"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoOpenEntry)
	suite.mockEntries.AssertNotCalled(suite.T(), "CloseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestActiveEntry_NoneIsNotAnError() {
	ctx := context.Background()
	suite.mockEntries.On("FindOpenEntryByEmployee", ctx, "emp-001").Return(nil, apperrors.ErrNotFound).Once()

	active, err := suite.service.ActiveEntry(ctx, "emp-001")

	suite.Require().NoError(err)
	suite.Nil(active)
}

func (suite *LedgerServiceTestSuite) TestActiveEntry_ReportsRunningFigures() {
	ctx := context.Background()
	open := &domain.TimeEntry{
		EntryID:     "te-1",
		EmployeeRef: "emp-001",
		PunchIn:     suite.now.Add(-30 * time.Minute),
		HourlyRate:  decimal.NewFromInt(100),
	}
	suite.mockEntries.On("FindOpenEntryByEmployee", ctx, "emp-001").Return(open, nil).Once()

	active, err := suite.service.ActiveEntry(ctx, "emp-001")

	suite.Require().NoError(err)
	suite.Require().NotNil(active)
	suite.True(active.ElapsedHours.Equal(decimal.NewFromFloat(0.5)), "got %s", active.ElapsedHours)
	suite.True(active.EstimatedCost.Equal(decimal.NewFromInt(50)), "got %s", active.EstimatedCost)
}

func (suite *LedgerServiceTestSuite) TestHoursAndCostFor_WrongKind() {
	ctx := context.Background()
	doc := &domain.Document{DocumentID: "doc-1", Kind: domain.Quote, Number: "EST-2025-001"}
	suite.mockDocuments.On("FindDocumentByID", ctx, "doc-1").Return(doc, nil).Once()

	_, err := suite.service.HoursAndCostFor(ctx, "doc-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntries.AssertNotCalled(suite.T(), "SummarizeWorkOrder", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestHoursAndCostFor_Aggregates() {
	ctx := context.Background()
	suite.mockDocuments.On("FindDocumentByID", ctx, "wo-1").Return(suite.workOrder(domain.StatusApproved), nil).Once()
	suite.mockEntries.On("SummarizeWorkOrder", ctx, "wo-1").Return(&domain.WorkOrderEffort{
		WorkOrderRef: "wo-1",
		EntryCount:   3,
		TotalHours:   decimal.NewFromInt(12),
		TotalCost:    decimal.NewFromInt(960),
	}, nil).Once()

	effort, err := suite.service.HoursAndCostFor(ctx, "wo-1")

	suite.Require().NoError(err)
	suite.Equal(3, effort.EntryCount)
	suite.True(effort.TotalHours.Equal(decimal.NewFromInt(12)))
	suite.mockEntries.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
