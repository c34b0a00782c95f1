package domain_test

import (
	"testing"
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    domain.DocumentStatus
		to      domain.DocumentStatus
		allowed bool
	}{
		{"draft to validated", domain.StatusDraft, domain.StatusValidated, true},
		{"draft to done skips stages", domain.StatusDraft, domain.StatusDone, true},
		{"validated to sent", domain.StatusValidated, domain.StatusSent, true},
		{"sent back to draft", domain.StatusSent, domain.StatusDraft, false},
		{"approved back to validated", domain.StatusApproved, domain.StatusValidated, false},
		{"same status is not a move", domain.StatusSent, domain.StatusSent, false},
		{"any state to cancelled", domain.StatusDraft, domain.StatusCancelled, true},
		{"done to cancelled", domain.StatusDone, domain.StatusCancelled, true},
		{"done to approved", domain.StatusDone, domain.StatusApproved, false},
		{"cancelled to draft", domain.StatusCancelled, domain.StatusDraft, false},
		{"cancelled to cancelled", domain.StatusCancelled, domain.StatusCancelled, false},
		{"unknown target", domain.StatusDraft, domain.DocumentStatus("SHIPPED"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, domain.CanTransition(tc.from, tc.to))
		})
	}
}

func TestKindPrefixes(t *testing.T) {
	assert.Equal(t, "BT", domain.WorkOrder.Prefix())
	assert.Equal(t, "BA", domain.PurchaseRequest.Prefix())
	assert.Equal(t, "BC", domain.PurchaseOrder.Prefix())
	assert.Equal(t, "DP", domain.PriceRequest.Prefix())
	assert.Equal(t, "EST", domain.Quote.Prefix())
	assert.False(t, domain.DocumentKind("INVOICE").IsValid())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "BT-2025-001", domain.FormatNumber(domain.WorkOrder, 2025, 1))
	assert.Equal(t, "EST-2025-042", domain.FormatNumber(domain.Quote, 2025, 42))
	assert.Equal(t, "BC-2026-1000", domain.FormatNumber(domain.PurchaseOrder, 2026, 1000))
}

func TestSequenceFromNumber(t *testing.T) {
	seq, ok := domain.SequenceFromNumber("BT-2025-007")
	assert.True(t, ok)
	assert.Equal(t, 7, seq)

	seq, ok = domain.SequenceFromNumber("EST-2025-013 v3")
	assert.True(t, ok)
	assert.Equal(t, 13, seq)

	_, ok = domain.SequenceFromNumber("BT-2025-1755900000x")
	assert.False(t, ok)

	_, ok = domain.SequenceFromNumber("garbage")
	assert.False(t, ok)
}

func TestNextRevisionNumber(t *testing.T) {
	first := domain.NextRevisionNumber("EST-2025-001")
	assert.Equal(t, "EST-2025-001 v2", first)

	second := domain.NextRevisionNumber(first)
	assert.Equal(t, "EST-2025-001 v3", second)

	assert.Equal(t, 1, domain.RevisionOfNumber("EST-2025-001"))
	assert.Equal(t, 2, domain.RevisionOfNumber(first))
	assert.Equal(t, 3, domain.RevisionOfNumber(second))
}

func TestRecomputeTotal(t *testing.T) {
	lines := []domain.DocumentLine{
		{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(5)},
	}
	domain.NormalizeLines(lines)

	assert.Equal(t, 1, lines[0].SequenceNumber)
	assert.Equal(t, 2, lines[1].SequenceNumber)
	assert.True(t, lines[0].LineAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, lines[1].LineAmount.Equal(decimal.NewFromInt(15)))

	doc := domain.Document{Kind: domain.PurchaseRequest}
	doc.RecomputeTotal(lines)
	assert.True(t, doc.TotalAmount.Equal(decimal.NewFromInt(35)))
}

func TestComputeProgress(t *testing.T) {
	estimate := 10.0
	pct := domain.ComputeProgress(decimal.NewFromInt(5), &estimate)
	assert.InDelta(t, 50.0, pct, 0.0001)

	pct = domain.ComputeProgress(decimal.NewFromInt(4), nil)
	assert.InDelta(t, 50.0, pct, 0.0001)

	pct = domain.ComputeProgress(decimal.NewFromInt(20), &estimate)
	assert.Equal(t, 100.0, pct)

	pct = domain.ComputeProgress(decimal.NewFromInt(9), nil)
	assert.Equal(t, 100.0, pct)
}

func TestHoursBetween(t *testing.T) {
	in := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)
	assert.True(t, domain.HoursBetween(in, out).Equal(decimal.NewFromFloat(1.5)))

	// clock skew must not produce negative hours
	assert.True(t, domain.HoursBetween(out, in).IsZero())
}
