package organization

import "context"

type ListFilter struct {
	Type        Type
	Status      Status
	AuditStatus AuditStatus
	Keyword     string
	Page        int
	Size        int
}

type Repository interface {
	Create(ctx context.Context, o *Organization) error
	Save(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id uint64) (*Organization, error)
	ExistsByName(ctx context.Context, name string, excludeID uint64) (bool, error)
	ExistsByUnifiedCreditCode(ctx context.Context, code string, excludeID uint64) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Organization, int64, error)
	ListActiveDisposal(ctx context.Context) ([]Organization, error)
	// ListDisposalByRegion matches active disposal orgs whose service_regions
	// JSON mentions the region.
	ListDisposalByRegion(ctx context.Context, region string) ([]Organization, error)
	CountPendingAudit(ctx context.Context) (int64, error)
}
