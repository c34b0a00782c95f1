package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// fallbackPctPerHour converts worked hours straight to a percentage when a
// work order carries no hour estimate (8 worked hours complete the order).
const fallbackPctPerHour = 12.5

// ProgressRecord is the derived completion state of a work order.
type ProgressRecord struct {
	WorkOrderID    string          `json:"workOrderID"`
	Percentage     float64         `json:"percentage"`
	WorkedHours    decimal.Decimal `json:"workedHours"`
	EstimatedHours *float64        `json:"estimatedHours,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ComputeProgress derives a completion percentage from worked hours. With a
// positive estimate the percentage is worked/estimated*100; without one,
// every worked hour counts for 12.5 points. The result is capped at 100.
func ComputeProgress(workedHours decimal.Decimal, estimatedHours *float64) float64 {
	worked, _ := workedHours.Float64()
	var pct float64
	if estimatedHours != nil && *estimatedHours > 0 {
		pct = worked / *estimatedHours * 100.0
	} else {
		pct = worked * fallbackPctPerHour
	}
	if pct > 100.0 {
		return 100.0
	}
	return pct
}
