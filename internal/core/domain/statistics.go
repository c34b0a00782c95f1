package domain

import "github.com/shopspring/decimal"

// KindStatistics aggregates the documents of one kind and status.
type KindStatistics struct {
	Kind        DocumentKind    `json:"kind"`
	Status      DocumentStatus  `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
