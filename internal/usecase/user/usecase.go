package user

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/user"
)

type Usecase struct {
	users user.Repository
	roles user.RoleRepository
	now   func() time.Time
}

func NewUsecase(users user.Repository, roles user.RoleRepository) *Usecase {
	return &Usecase{users: users, roles: roles, now: time.Now}
}

func (u *Usecase) Create(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	exists, err := u.users.ExistsByUsername(ctx, in.Username, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrUserAlreadyExists
	}
	if in.Email != "" {
		exists, err = u.users.ExistsByEmail(ctx, in.Email, 0)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.ErrUserAlreadyExists.WithMessage("email already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		Username: in.Username,
		Password: string(hash),
		Nickname: in.Nickname,
		RealName: in.RealName,
		Phone:    in.Phone,
		OrgID:    in.OrgID,
		Status:   user.StatusActive,
	}
	if in.Email != "" {
		email := in.Email
		usr.Email = &email
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	if len(in.RoleIDs) > 0 {
		if err := u.assignRoles(ctx, usr.ID, in.RoleIDs); err != nil {
			return nil, err
		}
	}
	return u.Get(ctx, usr.ID)
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*UserDTO, error) {
	usr, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) GetByUsername(ctx context.Context, username string) (*UserDTO, error) {
	usr, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateUserInput) (*UserDTO, error) {
	usr, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != usr.EmailAddress() {
		exists, err := u.users.ExistsByEmail(ctx, in.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.ErrUserAlreadyExists.WithMessage("email already registered")
		}
		email := in.Email
		usr.Email = &email
	}
	if in.Nickname != "" {
		usr.Nickname = in.Nickname
	}
	if in.RealName != "" {
		usr.RealName = in.RealName
	}
	if in.Phone != "" {
		usr.Phone = in.Phone
	}
	if in.Avatar != "" {
		usr.Avatar = in.Avatar
	}

	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) List(ctx context.Context, f user.ListFilter) ([]UserDTO, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 {
		f.Size = 20
	}
	if f.Size > 200 {
		f.Size = 200
	}
	items, total, err := u.users.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserDTO, 0, len(items))
	for i := range items {
		out = append(out, *toDTO(&items[i]))
	}
	return out, total, nil
}

// AssignRoles replaces the user's role set. Every role must exist.
func (u *Usecase) AssignRoles(ctx context.Context, id uint64, roleIDs []uint64) error {
	if _, err := u.get(ctx, id); err != nil {
		return err
	}
	return u.assignRoles(ctx, id, roleIDs)
}

func (u *Usecase) assignRoles(ctx context.Context, id uint64, roleIDs []uint64) error {
	for _, roleID := range roleIDs {
		if _, err := u.roles.GetByID(ctx, roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrRoleNotFound.WithMessage("role %d not found", roleID)
			}
			return err
		}
	}
	return u.users.ReplaceRoles(ctx, id, roleIDs)
}

// ChangePassword lets a user rotate their own password.
func (u *Usecase) ChangePassword(ctx context.Context, id uint64, oldPassword, newPassword string) error {
	usr, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(oldPassword)) != nil {
		return apperr.ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, id, string(hash), u.now().UTC())
}

// ResetPassword is the admin override; no old password needed.
func (u *Usecase) ResetPassword(ctx context.Context, id uint64, newPassword string) error {
	if _, err := u.get(ctx, id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, id, string(hash), u.now().UTC())
}

func (u *Usecase) SetStatus(ctx context.Context, id uint64, status user.Status) error {
	if status != user.StatusActive && status != user.StatusDisabled && status != user.StatusLocked {
		return apperr.ErrInvalidParameter.WithMessage("unknown user status")
	}
	usr, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	usr.Status = status
	return u.users.Save(ctx, usr)
}

func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	usr, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	usr.Deleted = true
	return u.users.Save(ctx, usr)
}

func (u *Usecase) ListRoles(ctx context.Context) ([]RoleDTO, error) {
	roles, err := u.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleDTO{
			ID:          r.ID,
			Name:        r.Name,
			Code:        r.Code,
			Description: r.Description,
			OrgType:     r.OrgType,
		})
	}
	return out, nil
}

func (u *Usecase) get(ctx context.Context, id uint64) (*user.User, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return usr, nil
}

func toDTO(usr *user.User) *UserDTO {
	return &UserDTO{
		ID:            usr.ID,
		Username:      usr.Username,
		Nickname:      usr.Nickname,
		RealName:      usr.RealName,
		Email:         usr.EmailAddress(),
		Phone:         usr.Phone,
		Avatar:        usr.Avatar,
		OrgID:         usr.OrgID,
		Status:        string(usr.Status),
		Roles:         usr.RoleCodes(),
		LastLoginTime: usr.LastLoginTime,
		LoginCount:    usr.LoginCount,
		CreatedAt:     usr.CreatedAt,
	}
}
