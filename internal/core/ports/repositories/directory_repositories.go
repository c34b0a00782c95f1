package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// DirectoryReader is the read-only employee/partner/work-center directory used
// for reference resolution and rate lookups. The records themselves are owned
// elsewhere.
type DirectoryReader interface {
	EmployeeExists(ctx context.Context, employeeRef string) (bool, error)
	PartnerExists(ctx context.Context, partnerRef string) (bool, error)
	// WorkCenterRate returns the hourly cost of a work center, or
	// apperrors.ErrNotFound when the work center is unknown.
	WorkCenterRate(ctx context.Context, workCenterRef string) (decimal.Decimal, error)
}
