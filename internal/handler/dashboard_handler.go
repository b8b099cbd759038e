package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/firstcentralng/bulkrep/internal/service"
	"github.com/firstcentralng/bulkrep/internal/service/serviceutils"
)

const defaultDashboardWindow = 30 * 24 * time.Hour

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetDashboard returns the usage analytics for the requested window. Both
// dates default to the trailing 30 days when omitted.
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.Add(-defaultDashboardWindow)

	if raw := c.QueryParam("start_date"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid start_date", err)
		}
		start = parsed
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		parsed, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid end_date", err)
		}
		end = parsed
	}

	data, err := h.svc.GetDashboard(ctx, start, end, c.QueryParam("subscriber_filter"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "cannot build dashboard", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "dashboard retrieved", data)
}
