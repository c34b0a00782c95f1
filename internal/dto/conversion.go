package dto

import (
	"time"

	"github.com/shopmetal/workdoc_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertPurchaseRequestRequest carries the optional overrides applied when a
// purchase request becomes a purchase order.
type ConvertPurchaseRequestRequest struct {
	PaymentTerms    string     `json:"paymentTerms,omitempty"`
	DeliveryAddress string     `json:"deliveryAddress,omitempty"`
	DueAt           *time.Time `json:"dueAt,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// AwardPriceRequestRequest carries the negotiated terms that turn an awarded
// price request into a purchase order.
type AwardPriceRequestRequest struct {
	AwardedPartnerRef string          `json:"awardedPartnerRef" binding:"required"`
	FinalPrice        decimal.Decimal `json:"finalPrice" binding:"required"`
	DeliveryDays      int             `json:"deliveryDays" binding:"required,min=1"`
	PaymentTerms      string          `json:"paymentTerms,omitempty"`
	DeliveryAddress   string          `json:"deliveryAddress,omitempty"`
	Justification     string          `json:"justification,omitempty"`
}

// NewRevisionRequest carries the modifications applied to a document revision.
// At most one of the price adjustments may be set.
type NewRevisionRequest struct {
	Reason                 string           `json:"reason,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	DueAt                  *time.Time       `json:"dueAt,omitempty"`
	PriceAdjustmentPercent *float64         `json:"priceAdjustmentPercent,omitempty"`
	PriceAdjustmentAmount  *decimal.Decimal `json:"priceAdjustmentAmount,omitempty"`
}

// ProjectSeedResponse is the project-creation payload derived from a quote.
type ProjectSeedResponse struct {
	Name           string          `json:"name"`
	ClientRef      string          `json:"clientRef"`
	Status         string          `json:"status"`
	EstimatedPrice decimal.Decimal `json:"estimatedPrice"`
	PlannedEndAt   *time.Time      `json:"plannedEndAt,omitempty"`
	SourceQuoteRef string          `json:"sourceQuoteRef"`
}

// QuoteConversionResponse reports a quote turned into a project.
type QuoteConversionResponse struct {
	ProjectID string              `json:"projectID"`
	Seed      ProjectSeedResponse `json:"seed"`
}

// ToProjectSeedResponse converts a domain.ProjectSeed to its DTO.
func ToProjectSeedResponse(seed *domain.ProjectSeed) ProjectSeedResponse {
	return ProjectSeedResponse{
		Name:           seed.Name,
		ClientRef:      seed.ClientRef,
		Status:         seed.Status,
		EstimatedPrice: seed.EstimatedPrice,
		PlannedEndAt:   seed.PlannedEndAt,
		SourceQuoteRef: seed.SourceQuoteRef,
	}
}
