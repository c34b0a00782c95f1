// Package validation holds the pure rule checks run before any document write.
// Functions here have no side effects and return the full list of violated
// rules so a caller can fix everything in one round trip.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
)

const (
	minInvitedSuppliers   = 2
	weightSumTolerance    = 0.1
	minResponseDeadline   = 3
	maxResponseDeadline   = 90
	minPriceRequestNotes  = 50
	minQuoteMarginPercent = 5.0
	maxQuoteMarginPercent = 100.0
	minQuoteValidityDays  = 15
	maxQuoteValidityDays  = 365
)

// ValidateDocument applies the base rules and the kind-specific rules to a
// document and its lines. It returns every violated rule; an empty slice
// means the document may be written.
func ValidateDocument(doc *domain.Document, lines []domain.DocumentLine) []string {
	violations := baseRules(doc)

	switch doc.Kind {
	case domain.WorkOrder:
		violations = append(violations, workOrderRules(doc)...)
	case domain.PurchaseRequest:
		violations = append(violations, purchaseRequestRules(doc, lines)...)
	case domain.PurchaseOrder:
		violations = append(violations, purchaseOrderRules(doc, lines)...)
	case domain.PriceRequest:
		violations = append(violations, priceRequestRules(doc)...)
	case domain.Quote:
		violations = append(violations, quoteRules(doc, lines)...)
	}

	violations = append(violations, ValidateLines(lines)...)
	return violations
}

func baseRules(doc *domain.Document) []string {
	var violations []string
	if !doc.Kind.IsValid() {
		violations = append(violations, fmt.Sprintf("kind %q is not a known document kind", doc.Kind))
	}
	if strings.TrimSpace(doc.OwnerRef) == "" {
		violations = append(violations, "owner reference is required")
	}
	if doc.Status != "" && !doc.Status.IsValid() {
		violations = append(violations, fmt.Sprintf("status %q is not a known status", doc.Status))
	}
	if doc.Priority != "" && !doc.Priority.IsValid() {
		violations = append(violations, fmt.Sprintf("priority %q is not a known priority", doc.Priority))
	}
	if doc.TotalAmount.IsNegative() {
		violations = append(violations, "total amount must not be negative")
	}
	return violations
}

func workOrderRules(doc *domain.Document) []string {
	var violations []string
	if strings.TrimSpace(doc.ProjectRef) == "" {
		violations = append(violations, "work order requires a project reference")
	}
	if strings.TrimSpace(doc.Notes) == "" {
		violations = append(violations, "work order requires a non-empty description")
	}
	if meta := doc.Metadata.WorkOrder; meta != nil && meta.EstimatedHours != nil && *meta.EstimatedHours <= 0 {
		violations = append(violations, "work order estimated hours must be positive when set")
	}
	return violations
}

func purchaseRequestRules(doc *domain.Document, lines []domain.DocumentLine) []string {
	var violations []string
	if strings.TrimSpace(doc.PartnerRef) == "" {
		violations = append(violations, "purchase request requires a partner reference")
	}
	if len(lines) == 0 {
		violations = append(violations, "purchase request requires at least one line")
	}
	return violations
}

func purchaseOrderRules(doc *domain.Document, lines []domain.DocumentLine) []string {
	var violations []string
	meta := doc.Metadata.PurchaseOrder
	if meta == nil || strings.TrimSpace(meta.PaymentTerms) == "" {
		violations = append(violations, "purchase order requires payment terms")
	}
	if meta == nil || strings.TrimSpace(meta.DeliveryAddress) == "" {
		violations = append(violations, "purchase order requires a delivery address")
	}
	for i := range lines {
		if !lines[i].UnitPrice.IsPositive() {
			violations = append(violations, fmt.Sprintf("purchase order line %d must carry a positive unit price", i+1))
		}
	}
	return violations
}

func priceRequestRules(doc *domain.Document) []string {
	var violations []string
	meta := doc.Metadata.PriceRequest
	if meta == nil || len(meta.InvitedSupplierRefs) < minInvitedSuppliers {
		violations = append(violations, fmt.Sprintf("price request requires at least %d invited suppliers", minInvitedSuppliers))
	}
	// only active criteria take part in the evaluation, so only their weights
	// must balance
	activeWeight := 0.0
	activeCount := 0
	if meta != nil {
		for _, c := range meta.Criteria {
			if !c.Active {
				continue
			}
			activeWeight += c.Weight
			activeCount++
		}
	}
	if activeCount == 0 {
		violations = append(violations, "price request requires at least one active evaluation criterion")
	} else if math.Abs(activeWeight-100.0) > weightSumTolerance {
		violations = append(violations, fmt.Sprintf("evaluation criterion weights must sum to 100, got %.2f", activeWeight))
	}
	deadline := 0
	if meta != nil {
		deadline = meta.ResponseDeadlineDays
	}
	if deadline < minResponseDeadline || deadline > maxResponseDeadline {
		violations = append(violations, fmt.Sprintf("response deadline must be between %d and %d days", minResponseDeadline, maxResponseDeadline))
	}
	if len(strings.TrimSpace(doc.Notes)) < minPriceRequestNotes {
		violations = append(violations, fmt.Sprintf("price request description must be at least %d characters", minPriceRequestNotes))
	}
	return violations
}

func quoteRules(doc *domain.Document, lines []domain.DocumentLine) []string {
	var violations []string
	if strings.TrimSpace(doc.PartnerRef) == "" {
		violations = append(violations, "quote requires a client reference")
	}
	total := doc.TotalAmount
	if len(lines) > 0 {
		total = domain.TotalOfLines(lines)
	}
	if !total.IsPositive() {
		violations = append(violations, "quote requires a positive total amount")
	}
	meta := doc.Metadata.Quote
	if meta == nil || strings.TrimSpace(meta.IndustryTemplate) == "" {
		violations = append(violations, "quote requires an industry template tag")
	}
	if meta != nil && (meta.MarginPercent < minQuoteMarginPercent || meta.MarginPercent > maxQuoteMarginPercent) {
		violations = append(violations, fmt.Sprintf("quote margin must be between %.0f%% and %.0f%%", minQuoteMarginPercent, maxQuoteMarginPercent))
	}
	if meta != nil && (meta.ValidityDays < minQuoteValidityDays || meta.ValidityDays > maxQuoteValidityDays) {
		violations = append(violations, fmt.Sprintf("quote validity must be between %d and %d days", minQuoteValidityDays, maxQuoteValidityDays))
	}
	return violations
}

// ValidateLines applies the line-level rules: non-empty description, positive
// quantity, non-negative unit price, known unit when set, and sequence numbers
// unique within the set.
func ValidateLines(lines []domain.DocumentLine) []string {
	var violations []string
	seen := make(map[int]bool, len(lines))
	for i := range lines {
		line := &lines[i]
		pos := i + 1
		if strings.TrimSpace(line.Description) == "" {
			violations = append(violations, fmt.Sprintf("line %d requires a description", pos))
		}
		if !line.Quantity.IsPositive() {
			violations = append(violations, fmt.Sprintf("line %d quantity must be positive", pos))
		}
		if line.UnitPrice.IsNegative() {
			violations = append(violations, fmt.Sprintf("line %d unit price must not be negative", pos))
		}
		if line.Unit != "" && !domain.KnownLineUnits[line.Unit] {
			violations = append(violations, fmt.Sprintf("line %d unit %q is not a known unit", pos, line.Unit))
		}
		if line.SequenceNumber != 0 {
			if seen[line.SequenceNumber] {
				violations = append(violations, fmt.Sprintf("line %d duplicates sequence number %d", pos, line.SequenceNumber))
			}
			seen[line.SequenceNumber] = true
		}
	}
	return violations
}
