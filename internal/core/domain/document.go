package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies one of the five work-document families.
type DocumentKind string

const (
	WorkOrder       DocumentKind = "WORK_ORDER"
	PurchaseRequest DocumentKind = "PURCHASE_REQUEST"
	PurchaseOrder   DocumentKind = "PURCHASE_ORDER"
	PriceRequest    DocumentKind = "PRICE_REQUEST"
	Quote           DocumentKind = "QUOTE"
)

// kindPrefixes maps each kind to the short code embedded in document numbers.
var kindPrefixes = map[DocumentKind]string{
	WorkOrder:       "BT",
	PurchaseRequest: "BA",
	PurchaseOrder:   "BC",
	PriceRequest:    "DP",
	Quote:           "EST",
}

// Prefix returns the number prefix for the kind, or an empty string for an unknown kind.
func (k DocumentKind) Prefix() string {
	return kindPrefixes[k]
}

// IsValid reports whether the kind is one of the five known families.
func (k DocumentKind) IsValid() bool {
	_, ok := kindPrefixes[k]
	return ok
}

// AllDocumentKinds lists every known kind, in display order.
func AllDocumentKinds() []DocumentKind {
	return []DocumentKind{WorkOrder, PurchaseRequest, PurchaseOrder, PriceRequest, Quote}
}

// DocumentStatus is a stage in the one-way document lifecycle.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusValidated DocumentStatus = "VALIDATED"
	StatusSent      DocumentStatus = "SENT"
	StatusApproved  DocumentStatus = "APPROVED"
	StatusDone      DocumentStatus = "DONE"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// statusRank orders the forward progression. CANCELLED sits outside the chain.
var statusRank = map[DocumentStatus]int{
	StatusDraft:     0,
	StatusValidated: 1,
	StatusSent:      2,
	StatusApproved:  3,
	StatusDone:      4,
}

// IsValid reports whether the status is a known lifecycle stage.
func (s DocumentStatus) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further forward movement is possible.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransition reports whether a document may move from one status to another.
// Movement is strictly forward along DRAFT -> VALIDATED -> SENT -> APPROVED -> DONE;
// skipping stages is allowed, going backwards is not. CANCELLED is reachable from
// any status, including DONE.
func CanTransition(from, to DocumentStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if to == StatusCancelled {
		return from != StatusCancelled
	}
	if from.IsTerminal() {
		return false
	}
	return statusRank[to] > statusRank[from]
}

// DocumentPriority is the urgency level of a document.
type DocumentPriority string

const (
	PriorityNormal   DocumentPriority = "NORMAL"
	PriorityUrgent   DocumentPriority = "URGENT"
	PriorityCritical DocumentPriority = "CRITICAL"
)

// IsValid reports whether the priority is one of the known levels.
func (p DocumentPriority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityCritical:
		return true
	}
	return false
}

// Document is a numbered work document: work order, purchase request or order,
// price request, or customer quote. TotalAmount is always derived from the lines.
type Document struct {
	DocumentID  string           `json:"documentID"`
	Kind        DocumentKind     `json:"kind"`
	Number      string           `json:"number"`
	Status      DocumentStatus   `json:"status"`
	Priority    DocumentPriority `json:"priority"`
	ProjectRef  string           `json:"projectRef,omitempty"`
	PartnerRef  string           `json:"partnerRef,omitempty"`
	OwnerRef    string           `json:"ownerRef"`
	DueAt       *time.Time       `json:"dueAt,omitempty"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	Notes       string           `json:"notes,omitempty"`
	Metadata    Metadata         `json:"metadata"`
	Lines       []DocumentLine   `json:"lines,omitempty"`
	AuditTrail  []AuditRecord    `json:"auditTrail,omitempty"`
	AuditFields
}

// RecomputeTotal derives the document total from the given lines.
func (d *Document) RecomputeTotal(lines []DocumentLine) {
	d.TotalAmount = TotalOfLines(lines)
}

// FormatNumber builds a document number from a kind, a year and a sequence,
// e.g. "BT-2025-001". Sequences beyond 999 widen naturally.
func FormatNumber(kind DocumentKind, year int, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", kind.Prefix(), year, seq)
}

// FallbackNumber builds a collision-safe number used when the regular sequence
// cannot be determined. The kind prefix and year are kept so the document still
// sorts with its family.
func FallbackNumber(kind DocumentKind, at time.Time) string {
	return fmt.Sprintf("%s-%d-%d", kind.Prefix(), at.Year(), at.Unix())
}

// SequenceFromNumber extracts the numeric sequence from a document number,
// tolerating a revision suffix such as " v3". It returns false when the
// number does not carry a parseable sequence.
func SequenceFromNumber(number string) (int, bool) {
	base := number
	if i := strings.Index(base, " v"); i >= 0 {
		base = base[:i]
	}
	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		return 0, false
	}
	seq, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return seq, true
}

// RevisionOfNumber returns the revision carried by a number. A number without
// a suffix is revision 1.
func RevisionOfNumber(number string) int {
	i := strings.LastIndex(number, " v")
	if i < 0 {
		return 1
	}
	n, err := strconv.Atoi(number[i+2:])
	if err != nil || n < 2 {
		return 1
	}
	return n
}

// NextRevisionNumber returns the number for the next revision of a document:
// "EST-2025-001" becomes "EST-2025-001 v2", "EST-2025-001 v2" becomes
// "EST-2025-001 v3", and so on.
func NextRevisionNumber(number string) string {
	i := strings.LastIndex(number, " v")
	if i < 0 {
		return number + " v2"
	}
	n, err := strconv.Atoi(number[i+2:])
	if err != nil {
		return number + " v2"
	}
	return fmt.Sprintf("%s v%d", number[:i], n+1)
}
