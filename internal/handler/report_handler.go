package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/firstcentralng/bulkrep/internal/logger"
	"github.com/firstcentralng/bulkrep/internal/report"
	"github.com/firstcentralng/bulkrep/internal/service"
	"github.com/firstcentralng/bulkrep/internal/service/serviceutils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	zipContentType  = "application/zip"
	csvContentType  = "text/csv"

	dateParamLayout = "2006-01-02"
)

// ReportRequest is the JSON body accepted by the report endpoints.
type ReportRequest struct {
	SubscriberName  string   `json:"subscriber_name"`
	Subscribers     []string `json:"subscribers"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	IncludeBills    bool     `json:"include_bills"`
	IncludeProducts bool     `json:"include_products"`
	Username        string   `json:"username"`
}

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GenerateSingle produces one subscriber workbook and streams it back as an
// attachment.
func (h *ReportHandler) GenerateSingle(c echo.Context) error {
	ctx := c.Request().Context()

	var body ReportRequest
	if err := c.Bind(&body); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	start, end, err := parsePeriod(body.StartDate, body.EndDate)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid date range", err)
	}

	logger.InfoLog(ctx, "generating billing report for %q between %s and %s", body.SubscriberName, body.StartDate, body.EndDate)

	res, err := h.svc.GenerateSingle(ctx, report.Request{
		SubscriberName:  body.SubscriberName,
		PeriodStart:     start,
		PeriodEnd:       end,
		IncludeBills:    body.IncludeBills,
		IncludeProducts: body.IncludeProducts,
		Username:        username(body.Username),
	})
	if err != nil {
		return reportError(c, err)
	}

	return attachment(c, xlsxContentType, res.Filename, res.Bytes)
}

// GenerateBulk produces one workbook per subscriber and streams the zip
// archive back. An empty subscriber list means every subscriber active in
// the window.
func (h *ReportHandler) GenerateBulk(c echo.Context) error {
	ctx := c.Request().Context()

	var body ReportRequest
	if err := c.Bind(&body); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	start, end, err := parsePeriod(body.StartDate, body.EndDate)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid date range", err)
	}

	subscribers := body.Subscribers
	if len(subscribers) == 0 {
		subscribers, err = h.svc.ListSubscribers(ctx, start, end)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusInternalServerError, "cannot list subscribers", err)
		}
	}

	logger.InfoLog(ctx, "generating bulk billing reports for %d subscribers", len(subscribers))

	res, err := h.svc.GenerateBulk(ctx, subscribers, start, end, body.IncludeBills, body.IncludeProducts, username(body.Username))
	if err != nil {
		return reportError(c, err)
	}

	c.Response().Header().Set("X-Report-Summary", res.Summary())
	return attachment(c, zipContentType, res.Filename, res.ZipBytes)
}

// ListSubscribers returns the subscribers with usage in the window.
func (h *ReportHandler) ListSubscribers(c echo.Context) error {
	ctx := c.Request().Context()

	start, end, err := parsePeriod(c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid date range", err)
	}

	names, err := h.svc.ListSubscribers(ctx, start, end)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "cannot list subscribers", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "subscribers retrieved", names)
}

// ExportSubscribersCSV streams the subscriber list as a CSV attachment.
func (h *ReportHandler) ExportSubscribersCSV(c echo.Context) error {
	ctx := c.Request().Context()

	start, end, err := parsePeriod(c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid date range", err)
	}

	data, filename, err := h.svc.SubscribersCSV(ctx, start, end)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "cannot export subscribers", err)
	}
	return attachment(c, csvContentType, filename, data)
}

func parsePeriod(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateParamLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(dateParamLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date %s is before start_date %s", endRaw, startRaw)
	}
	return start, end, nil
}

func username(raw string) string {
	if raw == "" {
		return "system"
	}
	return raw
}

func attachment(c echo.Context, contentType, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, data)
}

// reportError maps the generation error taxonomy onto HTTP statuses. Data
// warnings are not failures: the caller gets a success envelope explaining
// why no file was produced.
func reportError(c echo.Context, err error) error {
	var validation *report.ValidationError
	if errors.As(err, &validation) {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid report request", err)
	}
	if report.IsWarning(err) {
		return serviceutils.ResponseSuccess(c, http.StatusOK, err.Error(), nil)
	}
	var tmpl *report.TemplateError
	if errors.As(err, &tmpl) {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "report template problem", err)
	}
	return serviceutils.ResponseError(c, http.StatusInternalServerError, "report generation failed", err)
}
