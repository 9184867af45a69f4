package http

import (
	"github.com/labstack/echo/v4"

	"drmp-backend/internal/adapter/middleware"
	"drmp-backend/internal/domain/apperr"
	domain "drmp-backend/internal/domain/user"
	"drmp-backend/internal/usecase/user"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

func (h *UserHandler) Create(c echo.Context) error {
	var req user.CreateUserInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *UserHandler) GetByUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return Fail(c, apperr.ErrInvalidParameter.WithMessage("username is required"))
	}
	dto, err := h.uc.GetByUsername(c.Request().Context(), username)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req user.UpdateUserInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	dto, err := h.uc.Update(c.Request().Context(), id, req)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *UserHandler) List(c echo.Context) error {
	page, size := pagination(c)
	f := domain.ListFilter{
		OrgID:   uint64(queryInt(c, "org_id")),
		Status:  domain.Status(c.QueryParam("status")),
		Keyword: c.QueryParam("keyword"),
		Page:    page,
		Size:    size,
	}
	list, total, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return Fail(c, err)
	}
	return OKPage(c, list, total, page, size)
}

func (h *UserHandler) AssignRoles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req user.AssignRolesInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.AssignRoles(c.Request().Context(), id, req.RoleIDs); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

// ChangePassword rotates the authenticated user's own password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return Fail(c, apperr.ErrUnauthorized)
	}
	var req user.ChangePasswordInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req user.ResetPasswordInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.ResetPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *UserHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req user.SetStatusInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.SetStatus(c.Request().Context(), id, domain.Status(req.Status)); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *UserHandler) ListRoles(c echo.Context) error {
	roles, err := h.uc.ListRoles(c.Request().Context())
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, roles)
}
