package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopmetal/workdoc_app/internal/apperrors"
	portsrepo "github.com/shopmetal/workdoc_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// DirectoryRepository reads the employee/company/work-center directory. The
// directory tables are owned by the surrounding ERP; this repository only
// resolves references and rates.
type DirectoryRepository struct {
	*BaseRepository
}

var _ portsrepo.DirectoryReader = (*DirectoryRepository)(nil)

// NewDirectoryRepository creates a new directory repository.
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{BaseRepository: NewBaseRepository(pool)}
}

func (r *DirectoryRepository) EmployeeExists(ctx context.Context, employeeRef string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM employees WHERE employee_id = $1`, employeeRef)
}

func (r *DirectoryRepository) PartnerExists(ctx context.Context, partnerRef string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM companies WHERE company_id = $1`, partnerRef)
}

// WorkCenterRate returns the hourly cost of a work center.
func (r *DirectoryRepository) WorkCenterRate(ctx context.Context, workCenterRef string) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT hourly_cost FROM work_centers WHERE work_center_id = $1`, workCenterRef).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("work center %s: %w", workCenterRef, apperrors.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("failed to query work center rate: %w", err)
	}
	return rate, nil
}

func (r *DirectoryRepository) exists(ctx context.Context, query, ref string) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, query, ref).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve reference %s: %w", ref, err)
	}
	return true, nil
}
