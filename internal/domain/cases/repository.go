package cases

import (
	"context"
	"time"
)

// ListFilter narrows List queries; zero values mean "no constraint".
type ListFilter struct {
	CasePackageID uint64
	Status        Status
	AssignedOrgID uint64
	Keyword       string
	Page          int
	Size          int
}

// StatusCount is one row of the per-status aggregate.
type StatusCount struct {
	Status Status
	Count  int64
}

// RecoveryStats aggregates recovery figures for one disposal org.
type RecoveryStats struct {
	CaseCount      int64
	TotalRemaining float64
	TotalRecovered float64
}

type Repository interface {
	Create(ctx context.Context, c *Case) error
	Save(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uint64) (*Case, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*Case, error)
	// ExistsByReceiptNumber reports whether a non-deleted case other than
	// excludeID carries the receipt number. excludeID 0 means no exclusion.
	ExistsByReceiptNumber(ctx context.Context, receiptNumber string, excludeID uint64) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Case, int64, error)
	ListPendingAssignment(ctx context.Context) ([]Case, error)
	// Assign sets org, status and assignment time on the given ids in one update.
	Assign(ctx context.Context, ids []uint64, orgID uint64, at time.Time, status Status) error
	UpdateStatus(ctx context.Context, id uint64, status Status, progress string) error
	UpdateRecovery(ctx context.Context, id uint64, totalRecovered, recoveryRate float64) error
	// CountAndSumByPackage returns COUNT(*) and SUM(remaining_amount) over the
	// non-deleted cases of a package.
	CountAndSumByPackage(ctx context.Context, packageID uint64) (int64, float64, error)
	CountAndSumAssignedByPackage(ctx context.Context, packageID uint64) (int64, float64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByOrgAndStatus(ctx context.Context, orgID uint64) ([]StatusCount, error)
	GetRecoveryStats(ctx context.Context, orgID uint64) (*RecoveryStats, error)
}
