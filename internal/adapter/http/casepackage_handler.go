package http

import (
	"github.com/labstack/echo/v4"

	"drmp-backend/internal/domain/apperr"
	domain "drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/infrastructure/storage"
	"drmp-backend/internal/usecase/casepkg"
)

type CasePackageHandler struct {
	uc       *casepkg.Usecase
	importer *casepkg.Importer
	files    *storage.Local
}

func NewCasePackageHandler(uc *casepkg.Usecase, importer *casepkg.Importer, files *storage.Local) *CasePackageHandler {
	return &CasePackageHandler{uc: uc, importer: importer, files: files}
}

func (h *CasePackageHandler) Create(c echo.Context) error {
	var req casepkg.CreatePackageInput
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

func (h *CasePackageHandler) Get(c echo.Context) error {
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

func (h *CasePackageHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req casepkg.UpdatePackageInput
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

func (h *CasePackageHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return Fail(c, err)
	}
	return OK(c, nil)
}

func (h *CasePackageHandler) List(c echo.Context) error {
	page, size := pagination(c)
	f := domain.ListFilter{
		SourceOrgID: uint64(queryInt(c, "source_org_id")),
		Status:      domain.Status(c.QueryParam("status")),
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

// ListPublished is the disposal-side marketplace view.
func (h *CasePackageHandler) ListPublished(c echo.Context) error {
	page, size := pagination(c)
	list, total, err := h.uc.ListPublished(c.Request().Context(), page, size)
	if err != nil {
		return Fail(c, err)
	}
	return OKPage(c, list, total, page, size)
}

func (h *CasePackageHandler) Publish(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	dto, err := h.uc.Publish(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *CasePackageHandler) Withdraw(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *CasePackageHandler) Close(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	dto, err := h.uc.Close(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *CasePackageHandler) CheckName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return Fail(c, apperr.ErrInvalidParameter.WithMessage("name is required"))
	}
	orgID := uint64(queryInt(c, "source_org_id"))
	ok, err := h.uc.NameAvailable(c.Request().Context(), orgID, name)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, map[string]bool{"available": ok})
}

func (h *CasePackageHandler) RefreshStatistics(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	dto, err := h.uc.RefreshStatistics(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, dto)
}

func (h *CasePackageHandler) Statistics(c echo.Context) error {
	stats, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, stats)
}

// Import stores the uploaded sheet and schedules the asynchronous import.
// The response carries the task id to poll progress with.
func (h *CasePackageHandler) Import(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return Fail(c, apperr.ErrImportFileEmpty)
	}
	path, err := h.files.SaveImportFile(fh)
	if err != nil {
		return Fail(c, err)
	}
	task, err := h.importer.Start(c.Request().Context(), id, path)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, task)
}

func (h *CasePackageHandler) ImportProgress(c echo.Context) error {
	task, err := h.importer.Progress(c.Param("task_id"))
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, task)
}

func (h *CasePackageHandler) ImportSummary(c echo.Context) error {
	summary, err := h.importer.Summary(c.Param("task_id"))
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, summary)
}
