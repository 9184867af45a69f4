package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/casepkg"
)

type CasePackageRepository struct{ db *gorm.DB }

func NewCasePackageRepository(db *gorm.DB) *CasePackageRepository {
	return &CasePackageRepository{db: db}
}

func (r *CasePackageRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted = ?", false)
}

func (r *CasePackageRepository) Create(ctx context.Context, p *casepkg.CasePackage) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CasePackageRepository) Save(ctx context.Context, p *casepkg.CasePackage) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *CasePackageRepository) GetByID(ctx context.Context, id uint64) (*casepkg.CasePackage, error) {
	var out casepkg.CasePackage
	res := r.live(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *CasePackageRepository) ExistsByName(ctx context.Context, sourceOrgID uint64, name string, excludeID uint64) (bool, error) {
	q := r.live(ctx).Model(&casepkg.CasePackage{}).
		Where("source_org_id = ? AND name = ?", sourceOrgID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CasePackageRepository) List(ctx context.Context, f casepkg.ListFilter) ([]casepkg.CasePackage, int64, error) {
	q := r.live(ctx).Model(&casepkg.CasePackage{})
	if f.SourceOrgID != 0 {
		q = q.Where("source_org_id = ?", f.SourceOrgID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		q = q.Where("name LIKE ?", "%"+f.Keyword+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []casepkg.CasePackage
	err := q.Order("id DESC").
		Offset((f.Page - 1) * f.Size).Limit(f.Size).
		Find(&out).Error
	return out, total, err
}

func (r *CasePackageRepository) ListPublished(ctx context.Context, page, size int) ([]casepkg.CasePackage, int64, error) {
	q := r.live(ctx).Model(&casepkg.CasePackage{}).
		Where("status = ?", casepkg.StatusPublished)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []casepkg.CasePackage
	err := q.Order("publish_time DESC, id DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&out).Error
	return out, total, err
}

// UpdateStatistics bypasses the version check on purpose: the aggregate cache
// must be refreshable while a user edit is in flight.
func (r *CasePackageRepository) UpdateStatistics(ctx context.Context, id uint64, totalCount int, totalAmount float64) error {
	return r.db.WithContext(ctx).Model(&casepkg.CasePackage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_count":  totalCount,
			"total_amount": totalAmount,
		}).Error
}

func (r *CasePackageRepository) UpdateAssignmentStatistics(ctx context.Context, id uint64, assignedCount int, assignedAmount float64) error {
	return r.db.WithContext(ctx).Model(&casepkg.CasePackage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"assigned_count":  assignedCount,
			"assigned_amount": assignedAmount,
		}).Error
}

func (r *CasePackageRepository) UpdateImportStatus(ctx context.Context, id uint64, status casepkg.ImportStatus, progress int, errMsg string) error {
	return r.db.WithContext(ctx).Model(&casepkg.CasePackage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"import_status":    status,
			"import_progress":  progress,
			"import_error_msg": errMsg,
		}).Error
}

func (r *CasePackageRepository) ListStuckImports(ctx context.Context, before time.Time) ([]casepkg.CasePackage, error) {
	var out []casepkg.CasePackage
	err := r.live(ctx).
		Where("import_status = ? AND update_time < ?", casepkg.ImportProcessing, before).
		Find(&out).Error
	return out, err
}

func (r *CasePackageRepository) CountByStatus(ctx context.Context) ([]casepkg.StatusCount, error) {
	var out []casepkg.StatusCount
	err := r.live(ctx).Model(&casepkg.CasePackage{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&out).Error
	return out, err
}
