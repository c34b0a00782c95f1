package dto

import (
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PunchInRequest opens a labor session. A session references either a work
// order or a generic project.
type PunchInRequest struct {
	EmployeeRef  string `json:"employeeRef" binding:"required"`
	WorkOrderRef string `json:"workOrderRef,omitempty"`
	ProjectRef   string `json:"projectRef,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// PunchOutRequest closes the employee's open labor session.
type PunchOutRequest struct {
	EmployeeRef string `json:"employeeRef" binding:"required"`
	Notes       string `json:"notes,omitempty"`
}

// TimeEntryResponse is one labor session as returned to the caller.
type TimeEntryResponse struct {
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
}

// ActiveEntryResponse is an open session with its live running figures.
type ActiveEntryResponse struct {
	Entry         TimeEntryResponse `json:"entry"`
	ElapsedHours  decimal.Decimal   `json:"elapsedHours"`
	EstimatedCost decimal.Decimal   `json:"estimatedCost"`
}

// SessionSummaryResponse reports a closed session.
type SessionSummaryResponse struct {
	EntryID      string          `json:"entryID"`
	WorkOrderRef string          `json:"workOrderRef,omitempty"`
	PunchIn      time.Time       `json:"punchIn"`
	PunchOut     time.Time       `json:"punchOut"`
	TotalHours   decimal.Decimal `json:"totalHours"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

// WorkOrderEffortResponse aggregates closed sessions of a work order.
type WorkOrderEffortResponse struct {
	WorkOrderRef string          `json:"workOrderRef"`
	EntryCount   int             `json:"entryCount"`
	TotalHours   decimal.Decimal `json:"totalHours"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

// ToTimeEntryResponse converts a domain.TimeEntry to its DTO.
func ToTimeEntryResponse(entry *domain.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		EntryID:      entry.EntryID,
		EmployeeRef:  entry.EmployeeRef,
		WorkOrderRef: entry.WorkOrderRef,
		ProjectRef:   entry.ProjectRef,
		PunchIn:      entry.PunchIn,
		PunchOut:     entry.PunchOut,
		HourlyRate:   entry.HourlyRate,
		TotalHours:   entry.TotalHours,
		TotalCost:    entry.TotalCost,
		Notes:        entry.Notes,
	}
}

// ToWorkOrderEffortResponse converts a domain.WorkOrderEffort to its DTO.
func ToWorkOrderEffortResponse(effort *domain.WorkOrderEffort) WorkOrderEffortResponse {
	return WorkOrderEffortResponse{
		WorkOrderRef: effort.WorkOrderRef,
		EntryCount:   effort.EntryCount,
		TotalHours:   effort.TotalHours,
		TotalCost:    effort.TotalCost,
	}
}
