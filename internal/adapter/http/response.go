package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"drmp-backend/internal/domain/apperr"
)

// Response is the envelope every endpoint returns. Business failures keep
// HTTP 200 and carry their code here; only transport-level problems (bad
// request shape, missing auth, crashes) surface as non-200 statuses.
type Response struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type PageData struct {
	List  any   `json:"list"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{
		Code:      200,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func OKPage(c echo.Context, list any, total int64, page, size int) error {
	return OK(c, PageData{List: list, Total: total, Page: page, Size: size})
}

// Fail maps an error onto the envelope. Known business errors keep their
// registry code; anything else is hidden behind "system busy".
func Fail(c echo.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := http.StatusOK
		switch {
		case errors.Is(ae, apperr.ErrUnauthorized) || errors.Is(ae, apperr.ErrInvalidToken):
			status = http.StatusUnauthorized
		case errors.Is(ae, apperr.ErrForbidden) || errors.Is(ae, apperr.ErrPermissionDenied):
			status = http.StatusForbidden
		case errors.Is(ae, apperr.ErrInvalidParameter):
			status = http.StatusBadRequest
		}
		return c.JSON(status, Response{
			Code:      ae.Code,
			Message:   ae.Message,
			Timestamp: time.Now().UnixMilli(),
		})
	}
	return c.JSON(http.StatusInternalServerError, Response{
		Code:      apperr.ErrSystem.Code,
		Message:   apperr.ErrSystem.Message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// FailValidation reports bind/validate problems with per-field details.
func FailValidation(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, Response{
		Code:      apperr.ErrInvalidParameter.Code,
		Message:   apperr.ErrInvalidParameter.Message,
		Data:      ToFieldErrors(err),
		Timestamp: time.Now().UnixMilli(),
	})
}
