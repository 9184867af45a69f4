package casepkg

import (
	"context"
	"time"
)

type ListFilter struct {
	SourceOrgID uint64
	Status      Status
	Keyword     string
	Page        int
	Size        int
}

type StatusCount struct {
	Status Status
	Count  int64
}

type Repository interface {
	Create(ctx context.Context, p *CasePackage) error
	Save(ctx context.Context, p *CasePackage) error
	GetByID(ctx context.Context, id uint64) (*CasePackage, error)
	ExistsByName(ctx context.Context, sourceOrgID uint64, name string, excludeID uint64) (bool, error)
	List(ctx context.Context, f ListFilter) ([]CasePackage, int64, error)
	ListPublished(ctx context.Context, page, size int) ([]CasePackage, int64, error)
	// UpdateStatistics writes the aggregate cache via direct UPDATE, outside
	// the optimistic-lock check; it never touches user-edited columns.
	UpdateStatistics(ctx context.Context, id uint64, totalCount int, totalAmount float64) error
	UpdateAssignmentStatistics(ctx context.Context, id uint64, assignedCount int, assignedAmount float64) error
	UpdateImportStatus(ctx context.Context, id uint64, status ImportStatus, progress int, errMsg string) error
	// ListStuckImports returns packages whose import has been PROCESSING since
	// before the cutoff.
	ListStuckImports(ctx context.Context, before time.Time) ([]CasePackage, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
