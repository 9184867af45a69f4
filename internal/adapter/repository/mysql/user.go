package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted = ?", false)
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	var out user.User
	res := r.live(ctx).
		Preload("Roles").
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var out user.User
	res := r.live(ctx).
		Preload("Roles.Permissions").
		Where("username = ?", username).
		First(&out)
	return &out, res.Error
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "username = ?", username, excludeID)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *UserRepository) exists(ctx context.Context, cond, val string, excludeID uint64) (bool, error) {
	q := r.live(ctx).Model(&user.User{}).Where(cond, val)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context, f user.ListFilter) ([]user.User, int64, error) {
	q := r.live(ctx).Model(&user.User{})
	if f.OrgID != 0 {
		q = q.Where("org_id = ?", f.OrgID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("username LIKE ? OR real_name LIKE ? OR email LIKE ?", kw, kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []user.User
	err := q.Preload("Roles").
		Order("id DESC").
		Offset((f.Page - 1) * f.Size).Limit(f.Size).
		Find(&out).Error
	return out, total, err
}

// ReplaceRoles swaps the user's role set in one transaction.
func (r *UserRepository) ReplaceRoles(ctx context.Context, userID uint64, roleIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if err := tx.Exec("INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)", userID, roleID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint64, at time.Time, ip string) error {
	return r.live(ctx).Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_login_time": at,
			"last_login_ip":   ip,
			"login_count":     gorm.Expr("login_count + 1"),
		}).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, hash string, at time.Time) error {
	return r.live(ctx).Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password":             hash,
			"password_update_time": at,
		}).Error
}

type RoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) *RoleRepository { return &RoleRepository{db: db} }

func (r *RoleRepository) GetByID(ctx context.Context, id uint64) (*user.Role, error) {
	var out user.Role
	res := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("deleted = ? AND id = ?", false, id).
		First(&out)
	return &out, res.Error
}

func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*user.Role, error) {
	var out user.Role
	res := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("deleted = ? AND code = ?", false, code).
		First(&out)
	return &out, res.Error
}

func (r *RoleRepository) List(ctx context.Context) ([]user.Role, error) {
	var out []user.Role
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("sort_order ASC, id ASC").
		Find(&out).Error
	return out, err
}
