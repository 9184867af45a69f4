package mysql

import (
	"context"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/organization"
)

type OrganizationRepository struct{ db *gorm.DB }

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted = ?", false)
}

func (r *OrganizationRepository) Create(ctx context.Context, o *organization.Organization) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrganizationRepository) Save(ctx context.Context, o *organization.Organization) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uint64) (*organization.Organization, error) {
	var out organization.Organization
	res := r.live(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *OrganizationRepository) ExistsByName(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "name = ?", name, excludeID)
}

func (r *OrganizationRepository) ExistsByUnifiedCreditCode(ctx context.Context, code string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "unified_credit_code = ?", code, excludeID)
}

func (r *OrganizationRepository) exists(ctx context.Context, cond, val string, excludeID uint64) (bool, error) {
	q := r.live(ctx).Model(&organization.Organization{}).Where(cond, val)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrganizationRepository) List(ctx context.Context, f organization.ListFilter) ([]organization.Organization, int64, error) {
	q := r.live(ctx).Model(&organization.Organization{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AuditStatus != "" {
		q = q.Where("audit_status = ?", f.AuditStatus)
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("name LIKE ? OR contact_person LIKE ?", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []organization.Organization
	err := q.Order("id DESC").
		Offset((f.Page - 1) * f.Size).Limit(f.Size).
		Find(&out).Error
	return out, total, err
}

func (r *OrganizationRepository) ListActiveDisposal(ctx context.Context) ([]organization.Organization, error) {
	var out []organization.Organization
	err := r.live(ctx).
		Where("type = ? AND status = ?", organization.TypeDisposal, organization.StatusActive).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *OrganizationRepository) ListDisposalByRegion(ctx context.Context, region string) ([]organization.Organization, error) {
	var out []organization.Organization
	err := r.live(ctx).
		Where("type = ? AND status = ?", organization.TypeDisposal, organization.StatusActive).
		Where("service_regions LIKE ?", "%"+region+"%").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *OrganizationRepository) CountPendingAudit(ctx context.Context) (int64, error) {
	var n int64
	err := r.live(ctx).Model(&organization.Organization{}).
		Where("audit_status = ?", organization.AuditPending).
		Count(&n).Error
	return n, err
}
