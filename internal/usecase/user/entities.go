package user

import "time"

type CreateUserInput struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"required,min=8,max=64"`
	Nickname string   `json:"nickname" validate:"max=100"`
	RealName string   `json:"real_name" validate:"max=100"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone" validate:"max=50"`
	OrgID    uint64   `json:"org_id" validate:"required"`
	RoleIDs  []uint64 `json:"role_ids"`
}

type UpdateUserInput struct {
	Nickname string `json:"nickname" validate:"max=100"`
	RealName string `json:"real_name" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Avatar   string `json:"avatar" validate:"max=500"`
}

type AssignRolesInput struct {
	RoleIDs []uint64 `json:"role_ids" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=64"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=64"`
}

type SetStatusInput struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE DISABLED LOCKED"`
}

type UserDTO struct {
	ID            uint64     `json:"id"`
	Username      string     `json:"username"`
	Nickname      string     `json:"nickname,omitempty"`
	RealName      string     `json:"real_name,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Avatar        string     `json:"avatar,omitempty"`
	OrgID         uint64     `json:"org_id"`
	Status        string     `json:"status"`
	Roles         []string   `json:"roles"`
	LastLoginTime *time.Time `json:"last_login_time,omitempty"`
	LoginCount    int        `json:"login_count"`
	CreatedAt     time.Time  `json:"create_time"`
}

type RoleDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	OrgType     string `json:"org_type,omitempty"`
}
