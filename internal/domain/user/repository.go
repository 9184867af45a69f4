package user

import (
	"context"
	"time"
)

type ListFilter struct {
	OrgID   uint64
	Status  Status
	Keyword string
	Page    int
	Size    int
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// GetByUsername loads the user with roles and their permissions.
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint64) (bool, error)
	List(ctx context.Context, f ListFilter) ([]User, int64, error)
	ReplaceRoles(ctx context.Context, userID uint64, roleIDs []uint64) error
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time, ip string) error
	UpdatePassword(ctx context.Context, id uint64, hash string, at time.Time) error
}

type RoleRepository interface {
	GetByID(ctx context.Context, id uint64) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
}
