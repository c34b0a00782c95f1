package dto

import (
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest is one document line as submitted by the caller. The line
// amount is always derived server-side.
type LineRequest struct {
	Description  string          `json:"description" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	MaterialRef  string          `json:"materialRef,omitempty"`
	OperationRef string          `json:"operationRef,omitempty"`
}

// CreateDocumentRequest is the payload for creating a document.
type CreateDocumentRequest struct {
	Kind       string          `json:"kind" binding:"required"`
	Priority   string          `json:"priority,omitempty"`
	ProjectRef string          `json:"projectRef,omitempty"`
	PartnerRef string          `json:"partnerRef,omitempty"`
	DueAt      *time.Time      `json:"dueAt,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Metadata   domain.Metadata `json:"metadata,omitempty"`
	Lines      []LineRequest   `json:"lines,omitempty"`
}

// SetStatusRequest is the payload for a status change.
type SetStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

// ReplaceLinesRequest swaps the full line set of a document.
type ReplaceLinesRequest struct {
	Lines []LineRequest `json:"lines" binding:"required"`
}

// DuplicateDocumentRequest carries the optional overrides applied to a copy.
type DuplicateDocumentRequest struct {
	Priority string     `json:"priority,omitempty"`
	DueAt    *time.Time `json:"dueAt,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// ListDocumentsParams are the supported list filters, bound from the query string.
type ListDocumentsParams struct {
	Kind       string `form:"kind"`
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	ProjectRef string `form:"projectRef"`
	PartnerRef string `form:"partnerRef"`
	OwnerRef   string `form:"ownerRef"`
	Year       int    `form:"year"`
	Limit      int    `form:"limit,default=50"`
	Offset     int    `form:"offset"`
}

// LineResponse is one document line as returned to the caller.
type LineResponse struct {
	LineID         string          `json:"lineID"`
	SequenceNumber int             `json:"sequenceNumber"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit,omitempty"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	LineAmount     decimal.Decimal `json:"lineAmount"`
	MaterialRef    string          `json:"materialRef,omitempty"`
	OperationRef   string          `json:"operationRef,omitempty"`
}

// AuditRecordResponse is one entry of a document's history.
type AuditRecordResponse struct {
	AuditID        string    `json:"auditID"`
	Kind           string    `json:"kind"`
	ActorRef       string    `json:"actorRef,omitempty"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	NewStatus      string    `json:"newStatus,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	RecordedAt     time.Time `json:"recordedAt"`
}

// DocumentResponse is a document with its lines and audit trail.
type DocumentResponse struct {
	DocumentID  string                `json:"documentID"`
	Kind        string                `json:"kind"`
	Number      string                `json:"number"`
	Status      string                `json:"status"`
	Priority    string                `json:"priority"`
	ProjectRef  string                `json:"projectRef,omitempty"`
	PartnerRef  string                `json:"partnerRef,omitempty"`
	OwnerRef    string                `json:"ownerRef"`
	DueAt       *time.Time            `json:"dueAt,omitempty"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
	Notes       string                `json:"notes,omitempty"`
	Metadata    domain.Metadata       `json:"metadata"`
	Lines       []LineResponse        `json:"lines,omitempty"`
	AuditTrail  []AuditRecordResponse `json:"auditTrail,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ListDocumentsResponse wraps a page of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// KindStatisticsResponse aggregates one kind/status bucket.
type KindStatisticsResponse struct {
	Kind        string          `json:"kind"`
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// StatisticsResponse is the per-kind document aggregate.
type StatisticsResponse struct {
	Buckets []KindStatisticsResponse `json:"buckets"`
}

// ToLineResponse converts a domain.DocumentLine to its DTO.
func ToLineResponse(line *domain.DocumentLine) LineResponse {
	return LineResponse{
		LineID:         line.LineID,
		SequenceNumber: line.SequenceNumber,
		Description:    line.Description,
		Quantity:       line.Quantity,
		Unit:           line.Unit,
		UnitPrice:      line.UnitPrice,
		LineAmount:     line.LineAmount,
		MaterialRef:    line.MaterialRef,
		OperationRef:   line.OperationRef,
	}
}

// ToAuditRecordResponse converts a domain.AuditRecord to its DTO.
func ToAuditRecordResponse(record *domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		AuditID:        record.AuditID,
		Kind:           string(record.Kind),
		ActorRef:       record.ActorRef,
		PreviousStatus: string(record.PreviousStatus),
		NewStatus:      string(record.NewStatus),
		Comment:        record.Comment,
		RecordedAt:     record.RecordedAt,
	}
}

// ToDocumentResponse converts a domain.Document to its DTO.
func ToDocumentResponse(doc *domain.Document) DocumentResponse {
	resp := DocumentResponse{
		DocumentID:  doc.DocumentID,
		Kind:        string(doc.Kind),
		Number:      doc.Number,
		Status:      string(doc.Status),
		Priority:    string(doc.Priority),
		ProjectRef:  doc.ProjectRef,
		PartnerRef:  doc.PartnerRef,
		OwnerRef:    doc.OwnerRef,
		DueAt:       doc.DueAt,
		TotalAmount: doc.TotalAmount,
		Notes:       doc.Notes,
		Metadata:    doc.Metadata,
		CreatedAt:   doc.CreatedAt,
		CreatedBy:   doc.CreatedBy,
	}
	for i := range doc.Lines {
		resp.Lines = append(resp.Lines, ToLineResponse(&doc.Lines[i]))
	}
	for i := range doc.AuditTrail {
		resp.AuditTrail = append(resp.AuditTrail, ToAuditRecordResponse(&doc.AuditTrail[i]))
	}
	return resp
}

// ToDocumentResponses converts a slice of documents.
func ToDocumentResponses(docs []domain.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i])
	}
	return responses
}
