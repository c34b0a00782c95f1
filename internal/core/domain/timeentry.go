package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is one labor punch session. PunchOut, TotalHours and TotalCost
// stay nil while the session is open; an employee has at most one open entry.
type TimeEntry struct {
	EntryID      string           `json:"entryID"`
	EmployeeRef  string           `json:"employeeRef"`
	WorkOrderRef string           `json:"workOrderRef,omitempty"`
	ProjectRef   string           `json:"projectRef,omitempty"`
	PunchIn      time.Time        `json:"punchIn"`
	PunchOut     *time.Time       `json:"punchOut,omitempty"`
	HourlyRate   decimal.Decimal  `json:"hourlyRate"`
	TotalHours   *decimal.Decimal `json:"totalHours,omitempty"`
	TotalCost    *decimal.Decimal `json:"totalCost,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	AuditFields
}

// IsOpen reports whether the session has not been punched out yet.
func (e *TimeEntry) IsOpen() bool {
	return e.PunchOut == nil
}

// HoursBetween converts a punch interval to decimal hours.
func HoursBetween(in, out time.Time) decimal.Decimal {
	seconds := out.Sub(in).Seconds()
	if seconds < 0 {
		seconds = 0
	}
	return decimal.NewFromFloat(seconds / 3600.0)
}

// WorkOrderEffort aggregates the closed labor sessions booked on a work order.
type WorkOrderEffort struct {
	WorkOrderRef string          `json:"workOrderRef"`
	EntryCount   int             `json:"entryCount"`
	TotalHours   decimal.Decimal `json:"totalHours"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}
