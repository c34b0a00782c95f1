package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
)

// ProjectRepository is the local stand-in for the external project
// collaborator: it accepts a project seed and returns the created project id.
type ProjectRepository struct {
	*BaseRepository
}

var _ portssvc.ProjectCreator = (*ProjectRepository)(nil)

// NewProjectRepository creates a new project repository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{BaseRepository: NewBaseRepository(pool)}
}

// CreateProject persists a seeded project and returns its id.
func (r *ProjectRepository) CreateProject(ctx context.Context, seed domain.ProjectSeed) (string, error) {
	projectID := uuid.NewString()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO projects (project_id, name, client_ref, status, estimated_price, planned_end_at, source_quote_ref, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		projectID, seed.Name, nullable(seed.ClientRef), seed.Status,
		seed.EstimatedPrice, seed.PlannedEndAt, seed.SourceQuoteRef, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert project: %w", err)
	}
	return projectID, nil
}
