package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drmp-backend/internal/domain/organization"
	"drmp-backend/internal/domain/user"
	"drmp-backend/internal/usecase/auth"
)

type stubUserRepo struct {
	user.Repository
	usr *user.User
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if s.usr == nil || s.usr.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.usr, nil
}

func (s *stubUserRepo) UpdateLastLogin(context.Context, uint64, time.Time, string) error { return nil }

type stubOrgRepo struct {
	organization.Repository
}

func (stubOrgRepo) GetByID(context.Context, uint64) (*organization.Organization, error) {
	return &organization.Organization{Type: organization.TypeDisposal, Status: organization.StatusActive}, nil
}

// viewer can read cases and nothing else.
func viewer(t *testing.T) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &user.User{
		Username: "viewer",
		Password: string(hash),
		OrgID:    3,
		Status:   user.StatusActive,
		Roles: []user.Role{{
			Code:        "VIEWER",
			Permissions: []user.Permission{{Code: "case:view"}},
		}},
	}
	u.ID = 7
	return u
}

func routedEcho(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := &stubUserRepo{usr: viewer(t)}
	authUC := auth.NewUsecase(users, stubOrgRepo{}, rdb, "test-secret", time.Hour, 24*time.Hour)

	res, err := authUC.Login(context.Background(), auth.LoginInput{Username: "viewer", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	Routes{
		Health:        NewHandler(),
		Auth:          NewAuthHandler(authUC),
		Cases:         &CaseHandler{},
		CasePackages:  &CasePackageHandler{},
		Organizations: &OrganizationHandler{},
		Users:         &UserHandler{},
		AuthUsecase:   authUC,
		UserRepo:      users,
	}.Register(e)
	return e, res.AccessToken
}

// Every mutating route must refuse a caller who only holds case:view.
func TestRoutes_PermissionMatrix(t *testing.T) {
	e, token := routedEcho(t)

	denied := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/cases"},
		{http.MethodPut, "/api/v1/cases/1"},
		{http.MethodDelete, "/api/v1/cases/1"},
		{http.MethodPut, "/api/v1/cases/1/status"},
		{http.MethodPut, "/api/v1/cases/1/recovery"},
		{http.MethodPost, "/api/v1/cases/assign"},
		{http.MethodGet, "/api/v1/case-packages"},
		{http.MethodPost, "/api/v1/case-packages"},
		{http.MethodDelete, "/api/v1/case-packages/1"},
		{http.MethodPost, "/api/v1/case-packages/1/publish"},
		{http.MethodPost, "/api/v1/case-packages/1/withdraw"},
		{http.MethodPost, "/api/v1/case-packages/1/close"},
		{http.MethodPost, "/api/v1/case-packages/1/import"},
		{http.MethodGet, "/api/v1/organizations"},
		{http.MethodPost, "/api/v1/organizations/1/audit"},
		{http.MethodPost, "/api/v1/organizations/1/suspend"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/users"},
		{http.MethodDelete, "/api/v1/users/1"},
		{http.MethodPost, "/api/v1/users/1/roles"},
		{http.MethodPut, "/api/v1/users/1/status"},
	}
	for _, d := range denied {
		req := httptest.NewRequest(d.method, d.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", d.method, d.path, rec.Code)
		}
	}

	// the same token passes routes it does hold the permission for
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
}

func TestRoutes_RequireToken(t *testing.T) {
	e, _ := routedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", rec.Code)
	}
}
