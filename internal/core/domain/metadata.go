package domain

import "time"

// Metadata groups the kind-specific attributes of a document. Exactly the
// variants relevant to the document's kind and history are populated; the
// rest stay nil and are omitted from serialization.
type Metadata struct {
	WorkOrder     *WorkOrderMeta     `json:"workOrder,omitempty"`
	PurchaseOrder *PurchaseOrderMeta `json:"purchaseOrder,omitempty"`
	PriceRequest  *PriceRequestMeta  `json:"priceRequest,omitempty"`
	Quote         *QuoteMeta         `json:"quote,omitempty"`
	Conversion    *ConversionMeta    `json:"conversion,omitempty"`
	Revision      *RevisionMeta      `json:"revision,omitempty"`
}

// WorkOrderMeta carries scheduling attributes of a work order.
type WorkOrderMeta struct {
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	WorkCenterRefs []string `json:"workCenterRefs,omitempty"`
	OperationRefs  []string `json:"operationRefs,omitempty"`
}

// PurchaseOrderMeta carries commercial terms of a purchase order.
type PurchaseOrderMeta struct {
	PaymentTerms     string `json:"paymentTerms,omitempty"`
	DeliveryAddress  string `json:"deliveryAddress,omitempty"`
	ReceptionContact string `json:"receptionContact,omitempty"`
	DeliveryLeadDays int    `json:"deliveryLeadDays,omitempty"`
	Warranty         string `json:"warranty,omitempty"`
}

// EvaluationCriterion is one weighted axis used to compare supplier offers.
type EvaluationCriterion struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Active bool    `json:"active"`
}

// PriceRequestMeta carries the supplier consultation attributes of a price request.
type PriceRequestMeta struct {
	InvitedSupplierRefs  []string              `json:"invitedSupplierRefs,omitempty"`
	Criteria             []EvaluationCriterion `json:"criteria,omitempty"`
	ResponseDeadlineDays int                   `json:"responseDeadlineDays,omitempty"`
}

// QuoteMeta carries the commercial attributes of a customer quote.
type QuoteMeta struct {
	IndustryTemplate   string  `json:"industryTemplate,omitempty"`
	MarginPercent      float64 `json:"marginPercent,omitempty"`
	ValidityDays       int     `json:"validityDays,omitempty"`
	ExecutionDelayDays int     `json:"executionDelayDays,omitempty"`
	Warranty           string  `json:"warranty,omitempty"`
}

// ConversionMeta links a document to the document it was converted from or into.
type ConversionMeta struct {
	SourceDocumentID    string    `json:"sourceDocumentID,omitempty"`
	SourceNumber        string    `json:"sourceNumber,omitempty"`
	SuccessorDocumentID string    `json:"successorDocumentID,omitempty"`
	SuccessorNumber     string    `json:"successorNumber,omitempty"`
	AwardedPartnerRef   string    `json:"awardedPartnerRef,omitempty"`
	ConvertedAt         time.Time `json:"convertedAt,omitzero"`
}

// RevisionMeta links a revision to the document it revises.
type RevisionMeta struct {
	PreviousDocumentID string `json:"previousDocumentID"`
	PreviousNumber     string `json:"previousNumber"`
	Version            int    `json:"version"`
	Reason             string `json:"reason,omitempty"`
}
