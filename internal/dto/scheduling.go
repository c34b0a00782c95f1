package dto

import (
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
)

// AssignEmployeesRequest attaches employees to a work order.
type AssignEmployeesRequest struct {
	EmployeeRefs []string `json:"employeeRefs" binding:"required,min=1"`
}

// ReserveWorkCentersRequest holds work centers for a work order.
type ReserveWorkCentersRequest struct {
	WorkCenterRefs []string   `json:"workCenterRefs" binding:"required,min=1"`
	PlannedFor     *time.Time `json:"plannedFor,omitempty"`
}

// AssignmentResponse is one employee assignment on a work order.
type AssignmentResponse struct {
	AssignmentID string    `json:"assignmentID"`
	WorkOrderID  string    `json:"workOrderID"`
	EmployeeRef  string    `json:"employeeRef"`
	Status       string    `json:"status"`
	AssignedAt   time.Time `json:"assignedAt"`
}

// ReservationResponse is one work-center reservation on a work order.
type ReservationResponse struct {
	ReservationID string     `json:"reservationID"`
	WorkOrderID   string     `json:"workOrderID"`
	WorkCenterRef string     `json:"workCenterRef"`
	Status        string     `json:"status"`
	ReservedAt    time.Time  `json:"reservedAt"`
	PlannedFor    *time.Time `json:"plannedFor,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
}

// ToAssignmentResponse converts a domain assignment to its DTO.
func ToAssignmentResponse(a *domain.WorkOrderAssignment) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID: a.AssignmentID,
		WorkOrderID:  a.WorkOrderID,
		EmployeeRef:  a.EmployeeRef,
		Status:       string(a.Status),
		AssignedAt:   a.AssignedAt,
	}
}

// ToReservationResponse converts a domain reservation to its DTO.
func ToReservationResponse(r *domain.WorkCenterReservation) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ReservationID,
		WorkOrderID:   r.WorkOrderID,
		WorkCenterRef: r.WorkCenterRef,
		Status:        string(r.Status),
		ReservedAt:    r.ReservedAt,
		PlannedFor:    r.PlannedFor,
		ReleasedAt:    r.ReleasedAt,
	}
}
