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

type DocumentServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockDocumentRepository
	mockScheduling *MockSchedulingRepository
	mockDirectory  *MockDirectoryReader
	service        portssvc.DocumentSvcFacade
	now            time.Time
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDocumentRepository)
	suite.mockScheduling = new(MockSchedulingRepository)
	suite.mockDirectory = new(MockDirectoryReader)
	suite.now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewDocumentService(suite.mockRepo, suite.mockScheduling, suite.mockDirectory, func() time.Time { return suite.now })
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_Success() {
	ctx := context.Background()
	actorID := "emp-001"
	req := dto.CreateDocumentRequest{
		Kind:       string(domain.WorkOrder),
		ProjectRef: "proj-42",
		Notes:      "Machine the bracket set",
		Lines: []dto.LineRequest{
			{Description: "Milling", Quantity: decimal.NewFromInt(2), Unit: "HOUR", UnitPrice: decimal.NewFromInt(10)},
			{Description: "Deburring", Quantity: decimal.NewFromInt(3), Unit: "HOUR", UnitPrice: decimal.NewFromInt(5)},
		},
	}

	suite.mockRepo.On("SaveDocument", ctx, mock.AnythingOfType("*domain.Document"), mock.AnythingOfType("domain.AuditRecord")).
		Run(func(args mock.Arguments) {
			doc := args.Get(1).(*domain.Document)
			doc.Number = "BT-2025-001"
		}).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, actorID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal("BT-2025-001", doc.Number)
	suite.Equal(domain.StatusDraft, doc.Status)
	suite.Equal(domain.PriorityNormal, doc.Priority)
	suite.Equal(actorID, doc.OwnerRef)
	suite.Equal(actorID, doc.CreatedBy)
	suite.Equal(suite.now, doc.CreatedAt)
	suite.True(doc.TotalAmount.Equal(decimal.NewFromInt(35)), "total should be 2*10 + 3*5 = 35, got %s", doc.TotalAmount)
	suite.Require().Len(doc.Lines, 2)
	suite.Equal(1, doc.Lines[0].SequenceNumber)
	suite.Equal(2, doc.Lines[1].SequenceNumber)
	suite.Require().Len(doc.AuditTrail, 1)
	suite.Equal(domain.AuditCreation, doc.AuditTrail[0].Kind)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_ValidationFailure() {
	ctx := context.Background()
	// work order without project reference or description
	req := dto.CreateDocumentRequest{
		Kind: string(domain.WorkOrder),
	}

	doc, err := suite.service.CreateDocument(ctx, "emp-001", req)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.Contains(vErr.Violations, "work order requires a project reference")
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_UnknownPartner() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:       string(domain.PurchaseRequest),
		PartnerRef: "cmp-missing",
		Lines: []dto.LineRequest{
			{Description: "Steel plate", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(20)},
		},
	}
	suite.mockDirectory.On("PartnerExists", ctx, "cmp-missing").Return(false, nil).Once()

	doc, err := suite.service.CreateDocument(ctx, "emp-001", req)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything)
	suite.mockDirectory.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestSetStatus_Success() {
	ctx := context.Background()
	docID := "doc-1"
	existing := &domain.Document{
		DocumentID: docID,
		Kind:       domain.WorkOrder,
		Number:     "BT-2025-007",
		Status:     domain.StatusDraft,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, docID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateStatus", ctx, docID, domain.StatusValidated, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	doc, err := suite.service.SetStatus(ctx, docID, domain.StatusValidated, "emp-002", "looks good")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusValidated, doc.Status)
	suite.Require().NotEmpty(doc.AuditTrail)
	last := doc.AuditTrail[len(doc.AuditTrail)-1]
	suite.Equal(domain.AuditStatusChange, last.Kind)
	suite.Equal(domain.StatusDraft, last.PreviousStatus)
	suite.Equal("looks good", last.Comment)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestSetStatus_BackwardRejected() {
	ctx := context.Background()
	existing := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.Quote,
		Number:     "EST-2025-003",
		Status:     domain.StatusApproved,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(existing, nil).Once()

	_, err := suite.service.SetStatus(ctx, "doc-1", domain.StatusSent, "emp-002", "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestSetStatus_DoneCanStillBeCancelled() {
	ctx := context.Background()
	existing := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.WorkOrder,
		Number:     "BT-2025-008",
		Status:     domain.StatusDone,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateStatus", ctx, "doc-1", domain.StatusCancelled, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	doc, err := suite.service.SetStatus(ctx, "doc-1", domain.StatusCancelled, "emp-002", "billing dispute")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, doc.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestReplaceLines_RecomputesTotal() {
	ctx := context.Background()
	existing := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.PurchaseRequest,
		Number:     "BA-2025-002",
		Status:     domain.StatusDraft,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(existing, nil).Once()
	suite.mockRepo.On("ReplaceLines", ctx, "doc-1", mock.AnythingOfType("[]domain.DocumentLine"), decimalEqual(decimal.NewFromInt(35)), "emp-001").Return(nil).Once()

	doc, err := suite.service.ReplaceLines(ctx, "doc-1", "emp-001", dto.ReplaceLinesRequest{
		Lines: []dto.LineRequest{
			{Description: "Bar stock", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
			{Description: "Fasteners", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(5)},
		},
	})

	suite.Require().NoError(err)
	suite.True(doc.TotalAmount.Equal(decimal.NewFromInt(35)))
	suite.Len(doc.Lines, 2)
	suite.Equal("emp-001", doc.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestReplaceLines_TerminalRejected() {
	ctx := context.Background()
	existing := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.PurchaseRequest,
		Number:     "BA-2025-002",
		Status:     domain.StatusDone,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(existing, nil).Once()

	_, err := suite.service.ReplaceLines(ctx, "doc-1", "emp-001", dto.ReplaceLinesRequest{
		Lines: []dto.LineRequest{{Description: "Bar stock", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestDuplicateDocument_StripsHistoryLinks() {
	ctx := context.Background()
	source := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.Quote,
		Number:     "EST-2025-004",
		Status:     domain.StatusApproved,
		Priority:   domain.PriorityUrgent,
		PartnerRef: "cmp-7",
		Metadata: domain.Metadata{
			Quote:      &domain.QuoteMeta{IndustryTemplate: "metalwork", MarginPercent: 20, ValidityDays: 30},
			Conversion: &domain.ConversionMeta{SuccessorDocumentID: "proj-9"},
			Revision:   &domain.RevisionMeta{PreviousNumber: "EST-2025-004", Version: 2},
		},
		Lines: []domain.DocumentLine{
			{LineID: "l-1", DocumentID: "doc-1", SequenceNumber: 1, Description: "Frame", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500), LineAmount: decimal.NewFromInt(500)},
		},
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(source, nil).Once()
	suite.mockRepo.On("SaveDocument", ctx, mock.AnythingOfType("*domain.Document"), mock.AnythingOfType("domain.AuditRecord")).
		Run(func(args mock.Arguments) {
			doc := args.Get(1).(*domain.Document)
			suite.Empty(doc.Number, "the copy must be renumbered by the store")
			doc.Number = "EST-2025-009"
		}).
		Return(nil).Once()

	copyDoc, err := suite.service.DuplicateDocument(ctx, "doc-1", "emp-003", dto.DuplicateDocumentRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, copyDoc.Status)
	suite.Equal(domain.PriorityUrgent, copyDoc.Priority)
	suite.NotEqual(source.DocumentID, copyDoc.DocumentID)
	suite.Nil(copyDoc.Metadata.Conversion)
	suite.Nil(copyDoc.Metadata.Revision)
	suite.NotNil(copyDoc.Metadata.Quote)
	suite.Require().Len(copyDoc.Lines, 1)
	suite.NotEqual("l-1", copyDoc.Lines[0].LineID)
	suite.Equal(copyDoc.DocumentID, copyDoc.Lines[0].DocumentID)
	suite.True(copyDoc.TotalAmount.Equal(decimal.NewFromInt(500)))
	suite.Require().Len(copyDoc.AuditTrail, 1)
	suite.Equal("Duplicated from EST-2025-004", copyDoc.AuditTrail[0].Comment)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestListDocuments_InvalidKind() {
	ctx := context.Background()

	_, err := suite.service.ListDocuments(ctx, dto.ListDocumentsParams{Kind: "INVOICE"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListDocuments", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestAssignEmployees_NotAWorkOrder() {
	ctx := context.Background()
	existing := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.Quote,
		Number:     "EST-2025-001",
		Status:     domain.StatusDraft,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(existing, nil).Once()

	_, err := suite.service.AssignEmployees(ctx, "doc-1", "emp-001", []string{"emp-002"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockScheduling.AssertNotCalled(suite.T(), "CreateAssignment", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestAssignEmployees_Success() {
	ctx := context.Background()
	existing := &domain.Document{
		DocumentID: "doc-1",
		Kind:       domain.WorkOrder,
		Number:     "BT-2025-010",
		Status:     domain.StatusValidated,
	}
	suite.mockRepo.On("FindDocumentByID", ctx, "doc-1").Return(existing, nil).Once()
	suite.mockDirectory.On("EmployeeExists", ctx, "emp-002").Return(true, nil).Once()
	suite.mockDirectory.On("EmployeeExists", ctx, "emp-003").Return(true, nil).Once()
	suite.mockScheduling.On("CreateAssignment", ctx, mock.AnythingOfType("*domain.WorkOrderAssignment")).Return(nil).Twice()
	suite.mockRepo.On("AppendAudit", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(nil).Once()

	assignments, err := suite.service.AssignEmployees(ctx, "doc-1", "emp-001", []string{"emp-002", "emp-003"})

	suite.Require().NoError(err)
	suite.Require().Len(assignments, 2)
	suite.Equal(domain.AssignmentActive, assignments[0].Status)
	suite.Equal("emp-001", assignments[0].AssignedBy)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockScheduling.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestNextNumber_InvalidKind() {
	_, err := suite.service.NextNumber(context.Background(), domain.DocumentKind("INVOICE"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
