package http

import (
	"github.com/labstack/echo/v4"

	"drmp-backend/internal/adapter/middleware"
	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

func (h *AuthHandler) Login(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	req.ClientIP = c.RealIP()
	res, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, res)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req auth.RefreshInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	res, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, res)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return Fail(c, apperr.ErrUnauthorized)
	}
	if err := h.uc.Logout(c.Request().Context(), token); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

// Me echoes the authenticated user's claims.
func (h *AuthHandler) Me(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return Fail(c, apperr.ErrUnauthorized)
	}
	return OK(c, map[string]any{
		"user_id":  claims.UserID,
		"username": claims.Subject,
		"org_id":   claims.OrgID,
		"org_type": claims.OrgType,
	})
}
