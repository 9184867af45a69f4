package http

import (
	"context"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"drmp-backend/internal/adapter/middleware"
	"drmp-backend/internal/domain/apperr"
	domain "drmp-backend/internal/domain/organization"
	"drmp-backend/internal/usecase/organization"
)

type OrganizationHandler struct{ uc *organization.Usecase }

func NewOrganizationHandler(uc *organization.Usecase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

func (h *OrganizationHandler) Register(c echo.Context) error {
	var req organization.RegisterInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	dto, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *OrganizationHandler) Get(c echo.Context) error {
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

func (h *OrganizationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req organization.UpdateInput
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

func (h *OrganizationHandler) Audit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req organization.AuditInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if claims := middleware.ClaimsFrom(c); claims != nil {
		req.AuditorID = claims.UserID
	}
	dto, err := h.uc.Audit(c.Request().Context(), id, req)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *OrganizationHandler) Suspend(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.uc.Suspend(c.Request().Context(), id); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *OrganizationHandler) Resume(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.uc.Resume(c.Request().Context(), id); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *OrganizationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *OrganizationHandler) List(c echo.Context) error {
	page, size := pagination(c)
	f := domain.ListFilter{
		Type:        domain.Type(c.QueryParam("type")),
		Status:      domain.Status(c.QueryParam("status")),
		AuditStatus: domain.AuditStatus(c.QueryParam("audit_status")),
		Keyword:     c.QueryParam("keyword"),
		Page:        page,
		Size:        size,
	}
	list, total, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return Fail(c, err)
	}
	return OKPage(c, list, total, page, size)
}

// ListActiveDisposal lists active disposal orgs, optionally filtered by
// service region.
func (h *OrganizationHandler) ListActiveDisposal(c echo.Context) error {
	ctx := c.Request().Context()
	if region := c.QueryParam("region"); region != "" {
		list, err := h.uc.ListDisposalByRegion(ctx, region)
		if err != nil {
			return Fail(c, err)
		}
		return OK(c, list)
	}
	list, err := h.uc.ListActiveDisposal(ctx)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, list)
}

func (h *OrganizationHandler) PendingAuditCount(c echo.Context) error {
	n, err := h.uc.CountPendingAudit(c.Request().Context())
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, map[string]int64{"count": n})
}

func (h *OrganizationHandler) CheckName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return Fail(c, apperr.ErrInvalidParameter.WithMessage("name is required"))
	}
	ok, err := h.uc.NameAvailable(c.Request().Context(), name)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, map[string]bool{"available": ok})
}

func (h *OrganizationHandler) CheckCreditCode(c echo.Context) error {
	code := c.QueryParam("unified_credit_code")
	if code == "" {
		return Fail(c, apperr.ErrInvalidParameter.WithMessage("unified_credit_code is required"))
	}
	ok, err := h.uc.CreditCodeAvailable(c.Request().Context(), code)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, map[string]bool{"available": ok})
}

func (h *OrganizationHandler) UploadLicense(c echo.Context) error {
	return h.upload(c, h.uc.UploadLicense)
}

func (h *OrganizationHandler) UploadContract(c echo.Context) error {
	return h.upload(c, h.uc.UploadContract)
}

func (h *OrganizationHandler) upload(c echo.Context, save func(context.Context, uint64, *multipart.FileHeader) (*organization.OrgDTO, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return Fail(c, apperr.ErrFileUploadFailed)
	}
	dto, err := save(c.Request().Context(), id, fh)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}
