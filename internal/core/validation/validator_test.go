package validation_test

import (
	"strings"
	"testing"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopmetal/workdoc_app/internal/core/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkOrder() (*domain.Document, []domain.DocumentLine) {
	estimate := 10.0
	doc := &domain.Document{
		Kind:       domain.WorkOrder,
		OwnerRef:   "emp-1",
		ProjectRef: "proj-1",
		Priority:   domain.PriorityNormal,
		Notes:      "machine the bracket set",
		Metadata: domain.Metadata{
			WorkOrder: &domain.WorkOrderMeta{EstimatedHours: &estimate},
		},
	}
	lines := []domain.DocumentLine{
		{SequenceNumber: 1, Description: "milling", Quantity: decimal.NewFromInt(4), Unit: "HOUR", UnitPrice: decimal.NewFromInt(80), LineAmount: decimal.NewFromInt(320)},
	}
	return doc, lines
}

func assertViolationContains(t *testing.T, violations []string, fragment string) {
	t.Helper()
	for _, v := range violations {
		if strings.Contains(v, fragment) {
			return
		}
	}
	t.Fatalf("expected a violation containing %q, got %v", fragment, violations)
}

func TestValidateDocument_BaseRules(t *testing.T) {
	doc, lines := validWorkOrder()
	require.Empty(t, validation.ValidateDocument(doc, lines))

	doc.OwnerRef = ""
	doc.Kind = domain.DocumentKind("INVOICE")
	doc.Status = domain.DocumentStatus("SHIPPED")
	doc.Priority = domain.DocumentPriority("LOW")
	doc.TotalAmount = decimal.NewFromInt(-1)

	violations := validation.ValidateDocument(doc, lines)
	assertViolationContains(t, violations, "owner reference")
	assertViolationContains(t, violations, "not a known document kind")
	assertViolationContains(t, violations, "not a known status")
	assertViolationContains(t, violations, "not a known priority")
	assertViolationContains(t, violations, "must not be negative")
}

func TestValidateDocument_WorkOrder(t *testing.T) {
	doc, lines := validWorkOrder()
	doc.ProjectRef = ""
	doc.Notes = ""
	badEstimate := -2.0
	doc.Metadata.WorkOrder.EstimatedHours = &badEstimate

	violations := validation.ValidateDocument(doc, lines)
	assertViolationContains(t, violations, "project reference")
	assertViolationContains(t, violations, "non-empty description")
	assertViolationContains(t, violations, "estimated hours")
}

func TestValidateDocument_PurchaseRequest(t *testing.T) {
	doc := &domain.Document{Kind: domain.PurchaseRequest, OwnerRef: "emp-1"}

	violations := validation.ValidateDocument(doc, nil)
	assertViolationContains(t, violations, "partner reference")
	assertViolationContains(t, violations, "at least one line")

	doc.PartnerRef = "sup-9"
	lines := []domain.DocumentLine{
		{SequenceNumber: 1, Description: "steel plate", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10), LineAmount: decimal.NewFromInt(20)},
	}
	assert.Empty(t, validation.ValidateDocument(doc, lines))
}

func TestValidateDocument_PurchaseOrder(t *testing.T) {
	doc := &domain.Document{
		Kind:       domain.PurchaseOrder,
		OwnerRef:   "emp-1",
		PartnerRef: "sup-9",
	}
	lines := []domain.DocumentLine{
		{SequenceNumber: 1, Description: "bar stock", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.Zero},
	}

	violations := validation.ValidateDocument(doc, lines)
	assertViolationContains(t, violations, "payment terms")
	assertViolationContains(t, violations, "delivery address")
	assertViolationContains(t, violations, "positive unit price")

	doc.Metadata.PurchaseOrder = &domain.PurchaseOrderMeta{
		PaymentTerms:    "30 days net",
		DeliveryAddress: "12 rue des Forges",
	}
	lines[0].UnitPrice = decimal.NewFromInt(3)
	lines[0].LineAmount = decimal.NewFromInt(15)
	assert.Empty(t, validation.ValidateDocument(doc, lines))
}

func TestValidateDocument_PriceRequest(t *testing.T) {
	doc := &domain.Document{
		Kind:     domain.PriceRequest,
		OwnerRef: "emp-1",
		Notes:    "short",
		Metadata: domain.Metadata{
			PriceRequest: &domain.PriceRequestMeta{
				InvitedSupplierRefs: []string{"sup-1"},
				Criteria: []domain.EvaluationCriterion{
					{Name: "price", Weight: 60, Active: true},
					{Name: "lead time", Weight: 30, Active: true},
				},
				ResponseDeadlineDays: 2,
			},
		},
	}

	violations := validation.ValidateDocument(doc, nil)
	assertViolationContains(t, violations, "at least 2 invited suppliers")
	assertViolationContains(t, violations, "weights must sum to 100")
	assertViolationContains(t, violations, "response deadline")
	assertViolationContains(t, violations, "at least 50 characters")

	doc.Notes = strings.Repeat("detailed consultation scope ", 3)
	doc.Metadata.PriceRequest.InvitedSupplierRefs = []string{"sup-1", "sup-2", "sup-3"}
	doc.Metadata.PriceRequest.Criteria = []domain.EvaluationCriterion{
		{Name: "price", Weight: 60.05, Active: true},
		{Name: "lead time", Weight: 39.95, Active: true},
	}
	doc.Metadata.PriceRequest.ResponseDeadlineDays = 15
	assert.Empty(t, validation.ValidateDocument(doc, nil))
}

func TestValidateDocument_PriceRequestRequiresCriteriaAndDeadline(t *testing.T) {
	doc := &domain.Document{
		Kind:     domain.PriceRequest,
		OwnerRef: "emp-1",
		Notes:    strings.Repeat("detailed consultation scope ", 3),
		Metadata: domain.Metadata{
			PriceRequest: &domain.PriceRequestMeta{
				InvitedSupplierRefs: []string{"sup-1", "sup-2"},
			},
		},
	}

	violations := validation.ValidateDocument(doc, nil)
	assertViolationContains(t, violations, "at least one active evaluation criterion")
	assertViolationContains(t, violations, "response deadline must be between")

	// metadata left out entirely fails the same rules
	doc.Metadata.PriceRequest = nil
	violations = validation.ValidateDocument(doc, nil)
	assertViolationContains(t, violations, "at least one active evaluation criterion")
	assertViolationContains(t, violations, "response deadline must be between")
}

func TestValidateDocument_PriceRequestIgnoresInactiveCriteria(t *testing.T) {
	doc := &domain.Document{
		Kind:     domain.PriceRequest,
		OwnerRef: "emp-1",
		Notes:    strings.Repeat("detailed consultation scope ", 3),
		Metadata: domain.Metadata{
			PriceRequest: &domain.PriceRequestMeta{
				InvitedSupplierRefs: []string{"sup-1", "sup-2"},
				Criteria: []domain.EvaluationCriterion{
					{Name: "price", Weight: 100, Active: true},
					{Name: "legacy lead time", Weight: 50, Active: false},
				},
				ResponseDeadlineDays: 10,
			},
		},
	}

	assert.Empty(t, validation.ValidateDocument(doc, nil))

	doc.Metadata.PriceRequest.Criteria[0].Weight = 60
	violations := validation.ValidateDocument(doc, nil)
	assertViolationContains(t, violations, "weights must sum to 100, got 60.00")
}

func TestValidateDocument_Quote(t *testing.T) {
	doc := &domain.Document{
		Kind:     domain.Quote,
		OwnerRef: "emp-1",
		Metadata: domain.Metadata{
			Quote: &domain.QuoteMeta{MarginPercent: 2, ValidityDays: 10},
		},
	}

	violations := validation.ValidateDocument(doc, nil)
	assertViolationContains(t, violations, "client reference")
	assertViolationContains(t, violations, "positive total amount")
	assertViolationContains(t, violations, "industry template")
	assertViolationContains(t, violations, "margin must be between")
	assertViolationContains(t, violations, "validity must be between")

	doc.PartnerRef = "cli-42"
	doc.Metadata.Quote = &domain.QuoteMeta{
		IndustryTemplate: "metal-fabrication",
		MarginPercent:    25,
		ValidityDays:     60,
	}
	lines := []domain.DocumentLine{
		{SequenceNumber: 1, Description: "frame assembly", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(4200), LineAmount: decimal.NewFromInt(4200)},
	}
	assert.Empty(t, validation.ValidateDocument(doc, lines))
}

func TestValidateLines(t *testing.T) {
	lines := []domain.DocumentLine{
		{SequenceNumber: 1, Description: "", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(-2), Unit: "BUCKET"},
		{SequenceNumber: 1, Description: "welding", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(40)},
	}

	violations := validation.ValidateLines(lines)
	assertViolationContains(t, violations, "line 1 requires a description")
	assertViolationContains(t, violations, "line 1 quantity must be positive")
	assertViolationContains(t, violations, "line 1 unit price must not be negative")
	assertViolationContains(t, violations, `unit "BUCKET"`)
	assertViolationContains(t, violations, "duplicates sequence number 1")
}
