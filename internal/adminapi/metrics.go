package adminapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/mill"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerMetricRoutes registers the daily production snapshot endpoints.
func registerMetricRoutes() {
	webserver.ApiGET("/metrics/daily", listDailyMetrics)
}

func listDailyMetrics(c echo.Context) error {
	limit := 30
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = v
	}
	svc := mill.NewStatsService(GetDB(c))
	rows, err := svc.Recent(c.Request().Context(), limit)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}
