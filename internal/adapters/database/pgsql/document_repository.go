package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopmetal/workdoc_app/internal/apperrors"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
	"github.com/shopmetal/workdoc_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// maxNumberAttempts bounds the retries on a numbering collision before the
// repository falls back to a timestamp-derived number.
const maxNumberAttempts = 3

const documentColumns = `document_id, kind, number, status, priority, project_ref, partner_ref, owner_ref,
	due_at, total_amount, notes, metadata, created_at, created_by, last_updated_at, last_updated_by`

// DocumentRepository implements document persistence using pgx.
type DocumentRepository struct {
	*BaseRepository
}

var _ portsrepo.DocumentRepositoryFacade = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{BaseRepository: NewBaseRepository(pool)}
}

// SaveDocument persists the document, its lines and the initial audit record
// in one transaction. When the number is store-assigned it is computed under
// the same transaction and retried on collision; a persistent collision falls
// back to a timestamp-derived number so creation never blocks.
func (r *DocumentRepository) SaveDocument(ctx context.Context, doc *domain.Document, audit domain.AuditRecord) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	autoNumber := doc.Number == ""

	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err = r.trySaveDocument(ctx, doc, audit, autoNumber)
		if err == nil {
			return nil
		}
		if autoNumber && isUniqueViolation(err, "documents_number_key") {
			logger.Warn("document number collision, retrying", "number", doc.Number, "attempt", attempt+1)
			continue
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("document number %s: %w", doc.Number, apperrors.ErrDuplicate)
		}
		return err
	}

	if autoNumber {
		doc.Number = domain.FallbackNumber(doc.Kind, time.Now().UTC())
		logger.Warn("falling back to timestamp-derived number", "number", doc.Number)
		if fallbackErr := r.trySaveDocument(ctx, doc, audit, false); fallbackErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to save document after %d attempts: %w", maxNumberAttempts, err)
}

func (r *DocumentRepository) trySaveDocument(ctx context.Context, doc *domain.Document, audit domain.AuditRecord, autoNumber bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if autoNumber {
		number, numErr := nextNumberIn(ctx, tx, doc.Kind, time.Now().UTC().Year())
		if numErr != nil {
			// a broken sequence lookup must never block document creation
			number = domain.FallbackNumber(doc.Kind, time.Now().UTC())
			middleware.GetLoggerFromCtx(ctx).Warn("number lookup failed, using fallback", "number", number, "error", numErr)
		}
		doc.Number = number
	}

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal document metadata: %w", err)
	}

	insertDoc := `INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = tx.Exec(ctx, insertDoc,
		doc.DocumentID, doc.Kind, doc.Number, doc.Status, doc.Priority,
		nullable(doc.ProjectRef), nullable(doc.PartnerRef), doc.OwnerRef,
		doc.DueAt, doc.TotalAmount, doc.Notes, metadata,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if err := insertLines(ctx, tx, doc.Lines); err != nil {
		return err
	}
	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// NextNumber computes the next free number for the kind and year. A lookup
// failure yields a timestamp-derived fallback instead of an error.
func (r *DocumentRepository) NextNumber(ctx context.Context, kind domain.DocumentKind, year int) (string, error) {
	number, err := nextNumberIn(ctx, r.pool, kind, year)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("number lookup failed, using fallback", "kind", kind, "error", err)
		return domain.FallbackNumber(kind, time.Now().UTC()), nil
	}
	return number, nil
}

// queryRower is satisfied by both pgxpool.Pool and pgx.Tx.
type queryRower interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// nextNumberIn scans the numbers already issued for the kind and year and
// returns the next one. Revision suffixes are tolerated when extracting the
// sequence.
func nextNumberIn(ctx context.Context, q queryRower, kind domain.DocumentKind, year int) (string, error) {
	pattern := fmt.Sprintf("%s-%d-%%", kind.Prefix(), year)
	rows, err := q.Query(ctx, `SELECT number FROM documents WHERE kind = $1 AND number LIKE $2`, kind, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to query document numbers: %w", err)
	}
	defer rows.Close()

	maxSeq := 0
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return "", fmt.Errorf("failed to scan document number: %w", err)
		}
		if seq, ok := domain.SequenceFromNumber(number); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate document numbers: %w", err)
	}
	return domain.FormatNumber(kind, year, maxSeq+1), nil
}

// FindDocumentByID loads a document with its lines and audit trail.
func (r *DocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1`
	doc, err := scanDocument(r.pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.Lines, err = r.linesFor(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.AuditTrail, err = r.auditFor(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns document headers matching the filter, newest first.
// Lines and audit trails are not loaded.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter) ([]domain.Document, error) {
	var conds []string
	var args []any
	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if filter.Kind != nil {
		add("kind = $%d", *filter.Kind)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Priority != nil {
		add("priority = $%d", *filter.Priority)
	}
	if filter.ProjectRef != nil {
		add("project_ref = $%d", *filter.ProjectRef)
	}
	if filter.PartnerRef != nil {
		add("partner_ref = $%d", *filter.PartnerRef)
	}
	if filter.OwnerRef != nil {
		add("owner_ref = $%d", *filter.OwnerRef)
	}
	if filter.Year != nil {
		add("EXTRACT(YEAR FROM created_at) = $%d", *filter.Year)
	}
	if filter.ExcludeTerminal {
		conds = append(conds, fmt.Sprintf("status NOT IN ('%s', '%s')", domain.StatusDone, domain.StatusCancelled))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, number DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// UpdateStatus changes the document status and appends the audit record in
// one transaction.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, documentID string, status domain.DocumentStatus, audit domain.AuditRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE documents SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE document_id = $1`,
		documentID, status, audit.RecordedAt, audit.ActorRef)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceLines swaps the full line set and persists the new derived total in
// one transaction.
func (r *DocumentRepository) ReplaceLines(ctx context.Context, documentID string, lines []domain.DocumentLine, total decimal.Decimal, updatedBy string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE documents SET total_amount = $2, last_updated_at = $3, last_updated_by = $4 WHERE document_id = $1`,
		documentID, total, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update document total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to delete document lines: %w", err)
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateMetadata overwrites the document's metadata.
func (r *DocumentRepository) UpdateMetadata(ctx context.Context, documentID string, metadata domain.Metadata) error {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal document metadata: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET metadata = $2, last_updated_at = $3 WHERE document_id = $1`,
		documentID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update document metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
	}
	return nil
}

// AppendAudit appends one record to a document's history.
func (r *DocumentRepository) AppendAudit(ctx context.Context, record domain.AuditRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO document_audit (audit_id, document_id, kind, actor_ref, previous_status, new_status, comment, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.AuditID, record.DocumentID, record.Kind, nullable(record.ActorRef),
		nullable(string(record.PreviousStatus)), nullable(string(record.NewStatus)),
		record.Comment, record.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// StatisticsByKind aggregates document count and total amount per kind and status.
func (r *DocumentRepository) StatisticsByKind(ctx context.Context) ([]domain.KindStatistics, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, status, COUNT(*), COALESCE(SUM(total_amount), 0)
		 FROM documents GROUP BY kind, status ORDER BY kind, status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query document statistics: %w", err)
	}
	defer rows.Close()

	var stats []domain.KindStatistics
	for rows.Next() {
		var s domain.KindStatistics
		if err := rows.Scan(&s.Kind, &s.Status, &s.Count, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan statistics row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statistics rows: %w", err)
	}
	return stats, nil
}

func (r *DocumentRepository) linesFor(ctx context.Context, documentID string) ([]domain.DocumentLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT line_id, document_id, sequence_number, description, quantity, unit, unit_price, line_amount, material_ref, operation_ref
		 FROM document_lines WHERE document_id = $1 ORDER BY sequence_number`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.DocumentLine
	for rows.Next() {
		var line domain.DocumentLine
		var unit, materialRef, operationRef *string
		if err := rows.Scan(&line.LineID, &line.DocumentID, &line.SequenceNumber, &line.Description,
			&line.Quantity, &unit, &line.UnitPrice, &line.LineAmount, &materialRef, &operationRef); err != nil {
			return nil, fmt.Errorf("failed to scan document line: %w", err)
		}
		line.Unit = deref(unit)
		line.MaterialRef = deref(materialRef)
		line.OperationRef = deref(operationRef)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document lines: %w", err)
	}
	return lines, nil
}

func (r *DocumentRepository) auditFor(ctx context.Context, documentID string) ([]domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT audit_id, document_id, kind, actor_ref, previous_status, new_status, comment, recorded_at
		 FROM document_audit WHERE document_id = $1 ORDER BY recorded_at`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var actorRef, previousStatus, newStatus *string
		if err := rows.Scan(&rec.AuditID, &rec.DocumentID, &rec.Kind, &actorRef, &previousStatus, &newStatus, &rec.Comment, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.ActorRef = deref(actorRef)
		rec.PreviousStatus = domain.DocumentStatus(deref(previousStatus))
		rec.NewStatus = domain.DocumentStatus(deref(newStatus))
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return records, nil
}

// insertLines batch-inserts document lines inside the given transaction.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.DocumentLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	insert := `INSERT INTO document_lines (line_id, document_id, sequence_number, description, quantity, unit, unit_price, line_amount, material_ref, operation_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i := range lines {
		line := &lines[i]
		batch.Queue(insert, line.LineID, line.DocumentID, line.SequenceNumber, line.Description,
			line.Quantity, nullable(line.Unit), line.UnitPrice, line.LineAmount,
			nullable(line.MaterialRef), nullable(line.OperationRef))
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert document line: %w", err)
		}
	}
	return nil
}

func insertAudit(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO document_audit (audit_id, document_id, kind, actor_ref, previous_status, new_status, comment, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.AuditID, record.DocumentID, record.Kind, nullable(record.ActorRef),
		nullable(string(record.PreviousStatus)), nullable(string(record.NewStatus)),
		record.Comment, record.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// scanDocument reads one document header row.
func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	var projectRef, partnerRef *string
	var metadata []byte
	err := row.Scan(&doc.DocumentID, &doc.Kind, &doc.Number, &doc.Status, &doc.Priority,
		&projectRef, &partnerRef, &doc.OwnerRef, &doc.DueAt, &doc.TotalAmount, &doc.Notes,
		&metadata, &doc.CreatedAt, &doc.CreatedBy, &doc.LastUpdatedAt, &doc.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	doc.ProjectRef = deref(projectRef)
	doc.PartnerRef = deref(partnerRef)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document metadata: %w", err)
		}
	}
	return &doc, nil
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
