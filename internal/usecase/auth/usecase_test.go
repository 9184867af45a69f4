package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/organization"
	"drmp-backend/internal/domain/user"
)

// ----- test doubles -----

type mockUserRepo struct {
	user.Repository

	GetByUsernameFn   func(ctx context.Context, username string) (*user.User, error)
	UpdateLastLoginFn func(ctx context.Context, id uint64, at time.Time, ip string) error
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id uint64, at time.Time, ip string) error {
	if m.UpdateLastLoginFn != nil {
		return m.UpdateLastLoginFn(ctx, id, at, ip)
	}
	return nil
}

type mockOrgRepo struct {
	organization.Repository

	GetByIDFn func(ctx context.Context, id uint64) (*organization.Organization, error)
}

func (m *mockOrgRepo) GetByID(ctx context.Context, id uint64) (*organization.Organization, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u := &user.User{
		Username: "zhang",
		Password: string(hash),
		OrgID:    3,
		Status:   user.StatusActive,
		Roles: []user.Role{{
			Code: "CASE_MANAGER",
			Permissions: []user.Permission{
				{Code: "case:view"}, {Code: "case:assign"},
			},
		}},
	}
	u.ID = 7
	return u
}

func newTestUsecase(t *testing.T, users *mockUserRepo) (*Usecase, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	orgs := &mockOrgRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*organization.Organization, error) {
			return &organization.Organization{Type: organization.TypeDisposal, Status: organization.StatusActive}, nil
		},
	}
	if users == nil {
		users = &mockUserRepo{}
	}
	return NewUsecase(users, orgs, rdb, "test-secret", time.Hour, 24*time.Hour), s
}

// ----- tests -----

func TestLogin_Success(t *testing.T) {
	loginRecorded := false
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
		UpdateLastLoginFn: func(ctx context.Context, id uint64, at time.Time, ip string) error {
			loginRecorded = id == 7 && ip == "10.0.0.8"
			return nil
		},
	}
	uc, s := newTestUsecase(t, users)

	res, err := uc.Login(context.Background(), LoginInput{Username: "zhang", Password: "s3cret", ClientIP: "10.0.0.8"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" || res.AccessToken == res.RefreshToken {
		t.Fatal("expected a distinct token pair")
	}
	if !loginRecorded {
		t.Fatal("last login not recorded")
	}
	if res.User.OrgType != string(organization.TypeDisposal) {
		t.Fatalf("org type = %q", res.User.OrgType)
	}
	if len(res.User.Permissions) != 2 {
		t.Fatalf("permissions = %v", res.User.Permissions)
	}
	if got, _ := s.Get("token:refresh:7"); got != res.RefreshToken {
		t.Fatal("refresh token not stored")
	}

	claims, err := uc.Validate(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != 7 || claims.OrgID != 3 || claims.TokenType != "access" {
		t.Fatalf("claims: %+v", claims)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "right"), nil
		},
	}
	uc, _ := newTestUsecase(t, users)

	_, err := uc.Login(context.Background(), LoginInput{Username: "zhang", Password: "wrong"})
	if !errors.Is(err, apperr.ErrBadCredentials) {
		t.Fatalf("err = %v, want bad credentials", err)
	}

	// unknown user gets the same error, not a user-enumeration hint
	uc, _ = newTestUsecase(t, &mockUserRepo{})
	_, err = uc.Login(context.Background(), LoginInput{Username: "ghost", Password: "x"})
	if !errors.Is(err, apperr.ErrBadCredentials) {
		t.Fatalf("err = %v, want bad credentials", err)
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			u := activeUser(t, "s3cret")
			u.Status = user.StatusDisabled
			return u, nil
		},
	}
	uc, _ := newTestUsecase(t, users)

	_, err := uc.Login(context.Background(), LoginInput{Username: "zhang", Password: "s3cret"})
	if !errors.Is(err, apperr.ErrUserDisabled) {
		t.Fatalf("err = %v, want user disabled", err)
	}
}

func TestLogin_RejectsInactiveOrg(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
	}
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	for _, status := range []organization.Status{
		organization.StatusPending, organization.StatusSuspended, organization.StatusRejected,
	} {
		orgs := &mockOrgRepo{
			GetByIDFn: func(ctx context.Context, id uint64) (*organization.Organization, error) {
				return &organization.Organization{Type: organization.TypeDisposal, Status: status}, nil
			},
		}
		uc := NewUsecase(users, orgs, rdb, "test-secret", time.Hour, 24*time.Hour)

		_, err := uc.Login(context.Background(), LoginInput{Username: "zhang", Password: "s3cret"})
		if !errors.Is(err, apperr.ErrOrgNotApproved) {
			t.Errorf("%s: err = %v, want org not approved", status, err)
		}
	}
}

func TestRefresh_RotatesAndSupersedes(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
	}
	uc, _ := newTestUsecase(t, users)
	ctx := context.Background()

	first, err := uc.Login(ctx, LoginInput{Username: "zhang", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	rotated, err := uc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.AccessToken == "" {
		t.Fatal("no new access token")
	}

	// the first refresh token is no longer the stored one
	if _, err := uc.Refresh(ctx, first.RefreshToken); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("superseded refresh: err = %v, want invalid token", err)
	}
	// the rotated one still works
	if _, err := uc.Refresh(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("rotated refresh: %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
	}
	uc, _ := newTestUsecase(t, users)
	ctx := context.Background()

	res, _ := uc.Login(ctx, LoginInput{Username: "zhang", Password: "s3cret"})
	if _, err := uc.Refresh(ctx, res.AccessToken); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("err = %v, want invalid token", err)
	}
}

func TestLogout_BlacklistsAccessToken(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
	}
	uc, s := newTestUsecase(t, users)
	ctx := context.Background()

	res, _ := uc.Login(ctx, LoginInput{Username: "zhang", Password: "s3cret"})
	if err := uc.Logout(ctx, res.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := uc.Validate(ctx, res.AccessToken); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("validate after logout: err = %v, want invalid token", err)
	}
	if s.Exists("token:refresh:7") {
		t.Fatal("refresh token must be dropped on logout")
	}
	if _, err := uc.Refresh(ctx, res.RefreshToken); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("refresh after logout: err = %v, want invalid token", err)
	}
}

func TestValidate_RejectsGarbageAndWrongType(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
	}
	uc, _ := newTestUsecase(t, users)
	ctx := context.Background()

	if _, err := uc.Validate(ctx, "not-a-jwt"); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("garbage: err = %v", err)
	}

	res, _ := uc.Login(ctx, LoginInput{Username: "zhang", Password: "s3cret"})
	if _, err := uc.Validate(ctx, res.RefreshToken); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("refresh as access: err = %v", err)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			return activeUser(t, "s3cret"), nil
		},
	}
	uc, _ := newTestUsecase(t, users)
	ctx := context.Background()

	uc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	res, err := uc.Login(ctx, LoginInput{Username: "zhang", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	uc.now = time.Now

	if _, err := uc.Validate(ctx, res.AccessToken); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("expired token: err = %v, want invalid token", err)
	}
}
