package repositories

import (
	"context"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentFilter enumerates the predicates supported by ListDocuments. Nil
// fields are not applied. Keeping the set closed avoids assembling query
// text from caller-supplied field names.
type DocumentFilter struct {
	Kind            *domain.DocumentKind
	Status          *domain.DocumentStatus
	Priority        *domain.DocumentPriority
	ProjectRef      *string
	PartnerRef      *string
	OwnerRef        *string
	Year            *int
	ExcludeTerminal bool
	Limit           int
	Offset          int
}

// DocumentReader defines read operations for documents.
type DocumentReader interface {
	// FindDocumentByID loads a document with its lines and audit trail.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
	StatisticsByKind(ctx context.Context) ([]domain.KindStatistics, error)
}

// DocumentWriter defines write operations for documents. Every multi-step
// write runs inside one transaction in the implementation.
type DocumentWriter interface {
	// SaveDocument persists a document, its lines and a creation audit record
	// in one transaction. When doc.Number is empty a fresh number is computed
	// inside the same transaction and written back to the document.
	SaveDocument(ctx context.Context, doc *domain.Document, creation domain.AuditRecord) error
	// NextNumber computes the next free number for the kind and year without
	// reserving it. SaveDocument recomputes under the insert transaction.
	NextNumber(ctx context.Context, kind domain.DocumentKind, year int) (string, error)
	// UpdateStatus changes the document status and appends the audit record
	// in one transaction.
	UpdateStatus(ctx context.Context, documentID string, status domain.DocumentStatus, audit domain.AuditRecord) error
	// ReplaceLines swaps the full line set and persists the new derived total
	// in one transaction, stamping the actor on the header.
	ReplaceLines(ctx context.Context, documentID string, lines []domain.DocumentLine, total decimal.Decimal, updatedBy string) error
	UpdateMetadata(ctx context.Context, documentID string, metadata domain.Metadata) error
	AppendAudit(ctx context.Context, record domain.AuditRecord) error
}

// DocumentRepositoryFacade combines document reader and writer.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
