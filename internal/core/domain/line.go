package domain

import "github.com/shopspring/decimal"

// KnownLineUnits are the units of measure accepted on document lines.
var KnownLineUnits = map[string]bool{
	"UNIT":  true,
	"HOUR":  true,
	"KG":    true,
	"M":     true,
	"M2":    true,
	"L":     true,
	"LOT":   true,
	"PIECE": true,
}

// DocumentLine is one costed row of a document. LineAmount is always
// Quantity multiplied by UnitPrice.
type DocumentLine struct {
	LineID         string          `json:"lineID"`
	DocumentID     string          `json:"documentID"`
	SequenceNumber int             `json:"sequenceNumber"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit,omitempty"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	LineAmount     decimal.Decimal `json:"lineAmount"`
	MaterialRef    string          `json:"materialRef,omitempty"`
	OperationRef   string          `json:"operationRef,omitempty"`
}

// ComputeAmount derives the line amount from quantity and unit price.
func (l *DocumentLine) ComputeAmount() {
	l.LineAmount = l.Quantity.Mul(l.UnitPrice)
}

// NormalizeLines assigns 1-based sequence numbers and recomputes every line amount.
func NormalizeLines(lines []DocumentLine) {
	for i := range lines {
		lines[i].SequenceNumber = i + 1
		lines[i].ComputeAmount()
	}
}

// TotalOfLines sums the line amounts.
func TotalOfLines(lines []DocumentLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].LineAmount)
	}
	return total
}
