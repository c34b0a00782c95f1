package domain

import "time"

// AssignmentStatus tracks whether an employee is still attached to a work order.
type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "ASSIGNED"
	AssignmentReleased AssignmentStatus = "RELEASED"
)

// WorkOrderAssignment attaches an employee to a work order.
type WorkOrderAssignment struct {
	AssignmentID string           `json:"assignmentID"`
	WorkOrderID  string           `json:"workOrderID"`
	EmployeeRef  string           `json:"employeeRef"`
	Status       AssignmentStatus `json:"status"`
	AssignedAt   time.Time        `json:"assignedAt"`
	AssignedBy   string           `json:"assignedBy,omitempty"`
}

// ReservationStatus tracks whether a work-center slot is still held.
type ReservationStatus string

const (
	ReservationHeld     ReservationStatus = "RESERVED"
	ReservationReleased ReservationStatus = "RELEASED"
)

// WorkCenterReservation holds a work center for a work order until the order
// completes or the reservation is released.
type WorkCenterReservation struct {
	ReservationID string            `json:"reservationID"`
	WorkOrderID   string            `json:"workOrderID"`
	WorkCenterRef string            `json:"workCenterRef"`
	Status        ReservationStatus `json:"status"`
	ReservedAt    time.Time         `json:"reservedAt"`
	PlannedFor    *time.Time        `json:"plannedFor,omitempty"`
	ReleasedAt    *time.Time        `json:"releasedAt,omitempty"`
}
