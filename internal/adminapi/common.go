package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
	"gorm.io/gorm"
)

// GetDB pulls the request-scoped database handle injected by the webserver.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":   code,
		"msg":    msg,
		"detail": detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     0,
		"msg":      "ok",
		"data":     rows,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// failFor maps service errors onto HTTP responses using the shared taxonomy.
func failFor(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidRole):
		return fail(c, http.StatusBadRequest, "INVALID_ROLE", err.Error(), nil)
	case errors.Is(err, domain.ErrLastAdmin):
		return fail(c, http.StatusConflict, "LAST_ADMIN", err.Error(), nil)
	case errors.Is(err, domain.ErrSelfAction):
		return fail(c, http.StatusConflict, "SELF_ACTION", err.Error(), nil)
	case errors.Is(err, domain.ErrUpstream):
		return fail(c, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error(), nil)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error(), nil)
}

func paramInt64(c echo.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
