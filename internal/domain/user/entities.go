package user

import (
	"time"

	"drmp-backend/internal/domain/base"
	"drmp-backend/internal/domain/organization"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
	StatusLocked   Status = "LOCKED"
)

type User struct {
	base.Model
	Username           string     `gorm:"column:username;size:50;not null;uniqueIndex:ux_users_username" json:"username"`
	Password           string     `gorm:"column:password;size:255;not null" json:"-"`
	Nickname           string     `gorm:"column:nickname;size:100" json:"nickname,omitempty"`
	RealName           string     `gorm:"column:real_name;size:100" json:"real_name,omitempty"`
	Email              *string    `gorm:"column:email;size:100;uniqueIndex:ux_users_email" json:"email,omitempty"`
	Phone              string     `gorm:"column:phone;size:50" json:"phone,omitempty"`
	Avatar             string     `gorm:"column:avatar;size:500" json:"avatar,omitempty"`
	OrgID              uint64     `gorm:"column:org_id;not null;index" json:"org_id"`
	Status             Status     `gorm:"column:status;size:16;not null;default:'ACTIVE'" json:"status"`
	LastLoginTime      *time.Time `gorm:"column:last_login_time" json:"last_login_time,omitempty"`
	LastLoginIP        string     `gorm:"column:last_login_ip;size:50" json:"last_login_ip,omitempty"`
	LoginCount         int        `gorm:"column:login_count;default:0" json:"login_count"`
	PasswordUpdateTime *time.Time `gorm:"column:password_update_time" json:"-"`

	Organization *organization.Organization `gorm:"-" json:"-"`
	Roles        []Role                     `gorm:"many2many:user_roles;joinForeignKey:user_id;joinReferences:role_id" json:"roles,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) IsActive() bool { return u.Status == StatusActive }

// EmailAddress returns the email, or "" when none is set. NULL keeps the
// unique index from colliding on users without an email.
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// PermissionCodes flattens the user's roles into a distinct permission set.
func (u *User) PermissionCodes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if _, ok := seen[p.Code]; ok {
				continue
			}
			seen[p.Code] = struct{}{}
			out = append(out, p.Code)
		}
	}
	return out
}

func (u *User) RoleCodes() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Code)
	}
	return out
}
