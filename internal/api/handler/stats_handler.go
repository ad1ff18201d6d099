package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/core/ports"
)

// StatsHandler serves the admin dashboard counts.
type StatsHandler struct {
	dashboard ports.DashboardService
}

func NewStatsHandler(dashboard ports.DashboardService) *StatsHandler {
	return &StatsHandler{dashboard: dashboard}
}

// Stats handles GET /api/v1/stats.
//
// @Summary      Dashboard stat cards
// @Description  Pending, completed and project counts, each compared with the
// @Description  count of rows created more than seven days ago.
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/stats [get]
func (h *StatsHandler) Stats(c echo.Context) error {
	stats, err := h.dashboard.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
