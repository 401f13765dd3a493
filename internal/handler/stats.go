package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/powermilk/cinema-reservation/internal/service"
)

// StatsHandler exposes business-level statistics for dashboards and
// monitoring.
type StatsHandler struct {
	Stats *service.StatsService
}

// NewStatsHandler constructs a StatsHandler. The service must be
// non-nil.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	if stats == nil {
		panic("nil service passed to NewStatsHandler")
	}
	return &StatsHandler{Stats: stats}
}

// Overview handles GET /v1/stats.
func (h *StatsHandler) Overview(c echo.Context) error {
	stats, err := h.Stats.Overview(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
