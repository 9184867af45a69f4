package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"drmp-backend/internal/adapter/middleware"
	"drmp-backend/internal/domain/user"
	"drmp-backend/internal/usecase/auth"
)

// Routes bundles everything route registration needs.
type Routes struct {
	Health        *Handler
	Auth          *AuthHandler
	Cases         *CaseHandler
	CasePackages  *CasePackageHandler
	Organizations *OrganizationHandler
	Users         *UserHandler

	AuthUsecase *auth.Usecase
	UserRepo    user.Repository
	Redis       *redis.Client
}

// Register wires all endpoints under /api/v1. Everything except health,
// login, refresh and the organization registration surface requires a
// valid token, and each action additionally requires the matching
// permission code.
func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)

	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", r.Auth.Login)
	v1.POST("/auth/refresh", r.Auth.Refresh)
	v1.POST("/organizations/register", r.Organizations.Register)
	// availability checks back the public registration form
	v1.GET("/organizations/check-name", r.Organizations.CheckName)
	v1.GET("/organizations/check-credit-code", r.Organizations.CheckCreditCode)

	authed := v1.Group("", middleware.Authenticate(r.AuthUsecase))
	if r.Redis != nil {
		authed.Use(middleware.Idempotency(r.Redis, 24*time.Hour))
	}

	authed.POST("/auth/logout", r.Auth.Logout)
	authed.GET("/auth/me", r.Auth.Me)

	perm := func(code string) echo.MiddlewareFunc {
		return middleware.RequirePermission(r.UserRepo, code)
	}

	authed.GET("/cases", r.Cases.List, perm("case:view"))
	authed.POST("/cases", r.Cases.Create, perm("case:create"))
	authed.GET("/cases/statistics", r.Cases.Statistics, perm("case:view"))
	authed.GET("/cases/statistics/org/:org_id", r.Cases.OrgStatistics, perm("case:view"))
	authed.GET("/cases/pending-assignment", r.Cases.ListPendingAssignment, perm("case:view"))
	authed.GET("/cases/check-receipt", r.Cases.CheckReceiptNumber, perm("case:view"))
	authed.GET("/cases/by-receipt", r.Cases.GetByReceiptNumber, perm("case:view"))
	authed.POST("/cases/assign", r.Cases.Assign, perm("case:assign"))
	authed.GET("/cases/:id", r.Cases.Get, perm("case:view"))
	authed.PUT("/cases/:id", r.Cases.Update, perm("case:update"))
	authed.DELETE("/cases/:id", r.Cases.Delete, perm("case:delete"))
	authed.PUT("/cases/:id/status", r.Cases.UpdateStatus, perm("case:update"))
	authed.PUT("/cases/:id/recovery", r.Cases.UpdateRecovery, perm("case:update"))

	authed.GET("/case-packages", r.CasePackages.List, perm("package:view"))
	authed.POST("/case-packages", r.CasePackages.Create, perm("package:create"))
	authed.GET("/case-packages/published", r.CasePackages.ListPublished, perm("package:view"))
	authed.GET("/case-packages/statistics", r.CasePackages.Statistics, perm("package:view"))
	authed.GET("/case-packages/check-name", r.CasePackages.CheckName, perm("package:view"))
	authed.GET("/case-packages/import/:task_id/progress", r.CasePackages.ImportProgress, perm("package:import"))
	authed.GET("/case-packages/import/:task_id/summary", r.CasePackages.ImportSummary, perm("package:import"))
	authed.GET("/case-packages/:id", r.CasePackages.Get, perm("package:view"))
	authed.PUT("/case-packages/:id", r.CasePackages.Update, perm("package:update"))
	authed.DELETE("/case-packages/:id", r.CasePackages.Delete, perm("package:delete"))
	authed.POST("/case-packages/:id/publish", r.CasePackages.Publish, perm("package:publish"))
	authed.POST("/case-packages/:id/withdraw", r.CasePackages.Withdraw, perm("package:withdraw"))
	authed.POST("/case-packages/:id/close", r.CasePackages.Close, perm("package:close"))
	authed.POST("/case-packages/:id/import", r.CasePackages.Import, perm("package:import"))
	authed.POST("/case-packages/:id/statistics/refresh", r.CasePackages.RefreshStatistics, perm("package:update"))

	authed.GET("/organizations", r.Organizations.List, perm("org:view"))
	authed.GET("/organizations/disposal", r.Organizations.ListActiveDisposal, perm("org:view"))
	authed.GET("/organizations/pending-audit/count", r.Organizations.PendingAuditCount, perm("org:audit"))
	authed.GET("/organizations/:id", r.Organizations.Get, perm("org:view"))
	authed.PUT("/organizations/:id", r.Organizations.Update, perm("org:update"))
	authed.DELETE("/organizations/:id", r.Organizations.Delete, perm("org:delete"))
	authed.POST("/organizations/:id/audit", r.Organizations.Audit, perm("org:audit"))
	authed.POST("/organizations/:id/suspend", r.Organizations.Suspend, perm("org:audit"))
	authed.POST("/organizations/:id/resume", r.Organizations.Resume, perm("org:audit"))
	authed.POST("/organizations/:id/license", r.Organizations.UploadLicense, perm("org:update"))
	authed.POST("/organizations/:id/contract", r.Organizations.UploadContract, perm("org:update"))

	authed.GET("/users", r.Users.List, perm("user:view"))
	authed.POST("/users", r.Users.Create, perm("user:manage"))
	authed.GET("/users/roles", r.Users.ListRoles, perm("user:view"))
	authed.GET("/users/by-username", r.Users.GetByUsername, perm("user:view"))
	authed.PUT("/users/password", r.Users.ChangePassword) // self-service, any authenticated user
	authed.GET("/users/:id", r.Users.Get, perm("user:view"))
	authed.PUT("/users/:id", r.Users.Update, perm("user:manage"))
	authed.DELETE("/users/:id", r.Users.Delete, perm("user:manage"))
	authed.POST("/users/:id/roles", r.Users.AssignRoles, perm("user:manage"))
	authed.POST("/users/:id/password/reset", r.Users.ResetPassword, perm("user:manage"))
	authed.PUT("/users/:id/status", r.Users.SetStatus, perm("user:manage"))
}
