package http

import (
	"github.com/labstack/echo/v4"

	"drmp-backend/internal/domain/apperr"
	domain "drmp-backend/internal/domain/cases"
	"drmp-backend/internal/usecase/cases"
)

type CaseHandler struct{ uc *cases.Usecase }

func NewCaseHandler(uc *cases.Usecase) *CaseHandler { return &CaseHandler{uc: uc} }

func (h *CaseHandler) Create(c echo.Context) error {
	var req cases.CreateCaseInput
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

func (h *CaseHandler) Get(c echo.Context) error {
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

func (h *CaseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req cases.UpdateCaseInput
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

func (h *CaseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *CaseHandler) List(c echo.Context) error {
	page, size := pagination(c)
	f := domain.ListFilter{
		CasePackageID: uint64(queryInt(c, "case_package_id")),
		Status:        domain.Status(c.QueryParam("status")),
		AssignedOrgID: uint64(queryInt(c, "assigned_org_id")),
		Keyword:       c.QueryParam("keyword"),
		Page:          page,
		Size:          size,
	}
	list, total, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return Fail(c, err)
	}
	return OKPage(c, list, total, page, size)
}

// ListPendingAssignment returns unassigned cases with debtor fields masked.
func (h *CaseHandler) ListPendingAssignment(c echo.Context) error {
	list, err := h.uc.ListPendingAssignment(c.Request().Context())
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, list)
}

func (h *CaseHandler) CheckReceiptNumber(c echo.Context) error {
	receipt := c.QueryParam("receipt_number")
	if receipt == "" {
		return Fail(c, apperr.ErrInvalidParameter.WithMessage("receipt_number is required"))
	}
	ok, err := h.uc.ReceiptNumberAvailable(c.Request().Context(), receipt)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, map[string]bool{"available": ok})
}

func (h *CaseHandler) GetByReceiptNumber(c echo.Context) error {
	receipt := c.QueryParam("receipt_number")
	if receipt == "" {
		return Fail(c, apperr.ErrInvalidParameter.WithMessage("receipt_number is required"))
	}
	dto, err := h.uc.GetByReceiptNumber(c.Request().Context(), receipt)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *CaseHandler) Assign(c echo.Context) error {
	var req cases.AssignInput
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.Assign(c.Request().Context(), req); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

type updateStatusReq struct {
	Status   string `json:"status" validate:"required,oneof=PENDING_ASSIGNMENT ASSIGNED PROCESSING SETTLED LITIGATION CLOSED"`
	Progress string `json:"progress,omitempty"`
}

func (h *CaseHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.UpdateStatus(c.Request().Context(), id, domain.Status(req.Status), req.Progress); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

type updateRecoveryReq struct {
	TotalRecovered float64 `json:"total_recovered" validate:"gte=0"`
	RecoveryRate   float64 `json:"recovery_rate" validate:"gte=0,lte=100"`
}

func (h *CaseHandler) UpdateRecovery(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req updateRecoveryReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.ErrInvalidParameter)
	}
	if err := c.Validate(&req); err != nil {
		return FailValidation(c, err)
	}
	if err := h.uc.UpdateRecovery(c.Request().Context(), id, req.TotalRecovered, req.RecoveryRate); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *CaseHandler) Statistics(c echo.Context) error {
	stats, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, stats)
}

func (h *CaseHandler) OrgStatistics(c echo.Context) error {
	orgID, err := pathID(c, "org_id")
	if err != nil {
		return Fail(c, err)
	}
	stats, err := h.uc.OrgStatistics(c.Request().Context(), orgID)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, stats)
}
