package http

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"drmp-backend/internal/domain/apperr"
)

// ---- helpers ----

// pagination reads page/size query params. "current" and "pageSize" are
// accepted as aliases for older clients; "page"/"size" win when both are set.
func pagination(c echo.Context) (page, size int) {
	page = queryInt(c, "page")
	if page == 0 {
		page = queryInt(c, "current")
	}
	size = queryInt(c, "size")
	if size == 0 {
		size = queryInt(c, "pageSize")
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 200 {
		size = 200
	}
	return page, size
}

func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrInvalidParameter.WithMessage("invalid %s", name)
	}
	return id, nil
}

// bearerToken strips the Authorization header down to the raw token.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "Bearer ") || strings.HasPrefix(h, "bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return strings.TrimSpace(h)
}
