package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/user"
	"drmp-backend/internal/usecase/auth"
)

const claimsKey = "auth.claims"

// ClaimsFrom returns the claims the Authenticate middleware stored, or nil
// on unauthenticated routes.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"code":      apperr.ErrUnauthorized.Code,
		"message":   msg,
		"timestamp": time.Now().UnixMilli(),
	})
}

// Authenticate rejects requests without a valid, non-blacklisted access
// token and stores the claims on the echo context.
func Authenticate(uc *auth.Usecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get("Authorization")
			if h == "" {
				return unauthorized(c, "missing authorization header")
			}
			token := h
			if strings.HasPrefix(h, "Bearer ") || strings.HasPrefix(h, "bearer ") {
				token = strings.TrimSpace(h[len("Bearer "):])
			}
			claims, err := uc.Validate(c.Request().Context(), token)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequirePermission loads the authenticated user's flattened permission set
// and rejects the request unless it contains the given code.
func RequirePermission(users user.Repository, code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return unauthorized(c, "missing authorization header")
			}
			usr, err := users.GetByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}
			for _, p := range usr.PermissionCodes() {
				if p == code {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]any{
				"code":      apperr.ErrPermissionDenied.Code,
				"message":   apperr.ErrPermissionDenied.Message,
				"timestamp": time.Now().UnixMilli(),
			})
		}
	}
}
