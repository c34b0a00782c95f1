package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectSeed is the payload handed to the project collaborator when an
// approved quote becomes a project.
type ProjectSeed struct {
	Name           string          `json:"name"`
	ClientRef      string          `json:"clientRef"`
	Status         string          `json:"status"`
	EstimatedPrice decimal.Decimal `json:"estimatedPrice"`
	PlannedEndAt   *time.Time      `json:"plannedEndAt,omitempty"`
	SourceQuoteRef string          `json:"sourceQuoteRef"`
}

// ProjectSeedStatus is the initial status a seeded project starts in.
const ProjectSeedStatus = "TODO"
