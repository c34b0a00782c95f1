package domain

import "time"

// AuditKind classifies an entry in a document's append-only history.
type AuditKind string

const (
	AuditCreation     AuditKind = "CREATION"
	AuditStatusChange AuditKind = "STATUS_CHANGE"
	AuditAssignment   AuditKind = "ASSIGNMENT"
	AuditConversion   AuditKind = "CONVERSION"
	AuditCompletion   AuditKind = "COMPLETION"
)

// AuditRecord is one immutable entry in a document's history. ActorRef is
// empty for system-initiated changes such as reconciliation.
type AuditRecord struct {
	AuditID        string         `json:"auditID"`
	DocumentID     string         `json:"documentID"`
	Kind           AuditKind      `json:"kind"`
	ActorRef       string         `json:"actorRef,omitempty"`
	PreviousStatus DocumentStatus `json:"previousStatus,omitempty"`
	NewStatus      DocumentStatus `json:"newStatus,omitempty"`
	Comment        string         `json:"comment,omitempty"`
	RecordedAt     time.Time      `json:"recordedAt"`
}
