package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/api/respond"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Summary returns the counters of the user's role dashboard.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  respond.Envelope
// @Failure      502  {object}  errorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	ws, role, err := authenticated(c)
	if err != nil {
		return err
	}
	sum, err := ws.Dashboard.Summary(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, respond.Envelope{Success: true, Data: sum, Provenance: sum.Provenance})
}
