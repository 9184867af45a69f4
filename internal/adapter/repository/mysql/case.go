package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/cases"
)

type CaseRepository struct{ db *gorm.DB }

func NewCaseRepository(db *gorm.DB) *CaseRepository { return &CaseRepository{db: db} }

func (r *CaseRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted = ?", false)
}

func (r *CaseRepository) Create(ctx context.Context, c *cases.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CaseRepository) Save(ctx context.Context, c *cases.Case) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CaseRepository) GetByID(ctx context.Context, id uint64) (*cases.Case, error) {
	var out cases.Case
	res := r.live(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *CaseRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*cases.Case, error) {
	var out cases.Case
	res := r.live(ctx).Where("receipt_number = ?", receiptNumber).First(&out)
	return &out, res.Error
}

func (r *CaseRepository) ExistsByReceiptNumber(ctx context.Context, receiptNumber string, excludeID uint64) (bool, error) {
	q := r.live(ctx).Model(&cases.Case{}).Where("receipt_number = ?", receiptNumber)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CaseRepository) List(ctx context.Context, f cases.ListFilter) ([]cases.Case, int64, error) {
	q := r.live(ctx).Model(&cases.Case{})
	if f.CasePackageID != 0 {
		q = q.Where("case_package_id = ?", f.CasePackageID)
	}
	if f.Status != "" {
		q = q.Where("current_status = ?", f.Status)
	}
	if f.AssignedOrgID != 0 {
		q = q.Where("assigned_org_id = ?", f.AssignedOrgID)
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("receipt_number LIKE ? OR loan_product LIKE ?", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []cases.Case
	err := q.Order("id DESC").
		Offset((f.Page - 1) * f.Size).Limit(f.Size).
		Find(&out).Error
	return out, total, err
}

func (r *CaseRepository) ListPendingAssignment(ctx context.Context) ([]cases.Case, error) {
	var out []cases.Case
	err := r.live(ctx).
		Where("current_status = ?", cases.StatusPendingAssignment).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *CaseRepository) Assign(ctx context.Context, ids []uint64, orgID uint64, at time.Time, status cases.Status) error {
	return r.live(ctx).Model(&cases.Case{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"assigned_org_id": orgID,
			"assigned_at":     at,
			"current_status":  status,
		}).Error
}

func (r *CaseRepository) UpdateStatus(ctx context.Context, id uint64, status cases.Status, progress string) error {
	upd := map[string]any{"current_status": status}
	if progress != "" {
		upd["latest_progress"] = progress
	}
	return r.live(ctx).Model(&cases.Case{}).Where("id = ?", id).Updates(upd).Error
}

func (r *CaseRepository) UpdateRecovery(ctx context.Context, id uint64, totalRecovered, recoveryRate float64) error {
	return r.live(ctx).Model(&cases.Case{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_recovered": totalRecovered,
			"recovery_rate":   recoveryRate,
		}).Error
}

func (r *CaseRepository) CountAndSumByPackage(ctx context.Context, packageID uint64) (int64, float64, error) {
	var agg struct {
		N   int64
		Sum float64
	}
	err := r.live(ctx).Model(&cases.Case{}).
		Select("COUNT(*) AS n, COALESCE(SUM(remaining_amount), 0) AS sum").
		Where("case_package_id = ?", packageID).
		Scan(&agg).Error
	return agg.N, agg.Sum, err
}

func (r *CaseRepository) CountAndSumAssignedByPackage(ctx context.Context, packageID uint64) (int64, float64, error) {
	var agg struct {
		N   int64
		Sum float64
	}
	err := r.live(ctx).Model(&cases.Case{}).
		Select("COUNT(*) AS n, COALESCE(SUM(remaining_amount), 0) AS sum").
		Where("case_package_id = ? AND assigned_org_id IS NOT NULL", packageID).
		Scan(&agg).Error
	return agg.N, agg.Sum, err
}

func (r *CaseRepository) CountByStatus(ctx context.Context) ([]cases.StatusCount, error) {
	var out []cases.StatusCount
	err := r.live(ctx).Model(&cases.Case{}).
		Select("current_status AS status, COUNT(*) AS count").
		Group("current_status").
		Scan(&out).Error
	return out, err
}

func (r *CaseRepository) CountByOrgAndStatus(ctx context.Context, orgID uint64) ([]cases.StatusCount, error) {
	var out []cases.StatusCount
	err := r.live(ctx).Model(&cases.Case{}).
		Select("current_status AS status, COUNT(*) AS count").
		Where("assigned_org_id = ?", orgID).
		Group("current_status").
		Scan(&out).Error
	return out, err
}

func (r *CaseRepository) GetRecoveryStats(ctx context.Context, orgID uint64) (*cases.RecoveryStats, error) {
	var out cases.RecoveryStats
	err := r.live(ctx).Model(&cases.Case{}).
		Select("COUNT(*) AS case_count, COALESCE(SUM(remaining_amount), 0) AS total_remaining, COALESCE(SUM(total_recovered), 0) AS total_recovered").
		Where("assigned_org_id = ?", orgID).
		Scan(&out).Error
	return &out, err
}
