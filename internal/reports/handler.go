package reports

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

type Handler struct {
	service ReportService
	now     func() time.Time
}

func NewHandler(svc ReportService) *Handler {
	return &Handler{service: svc, now: time.Now}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, event.ErrInvalidCategory), errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrUnsupportedReport):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// GetEventsReport godoc
// @Summary Event attendance report
// @Description Without format the rows are returned as JSON.
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "csv, excel or pdf"
// @Param category query string false "tech, sports, cultural or all"
// @Param date_range query string false "all, daily, weekly, monthly, yearly or custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Success 200 {array} EventReportRow
// @Failure 400 {object} map[string]string
// @Router /api/v1/reports/events [get]
func (h *Handler) GetEventsReport(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	start, end, err := GetDateRange(c.Query("date_range"), c.Query("start_date"), c.Query("end_date"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.service.EventRows(ReportRequest{
		Category:  c.Query("category"),
		DateRange: c.Query("date_range"),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.respond(c, ReportTypeEvents, ReportData{Events: rows}, rows, accessContext)
}

// GetAttendeesReport godoc
// @Summary Attendees of one event
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param format query string false "csv, excel or pdf"
// @Success 200 {array} AttendeeReportRow
// @Failure 404 {object} map[string]string
// @Router /api/v1/reports/events/{id}/attendees [get]
func (h *Handler) GetAttendeesReport(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	rows, err := h.service.AttendeeRows(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.respond(c, ReportTypeAttendees, ReportData{Attendees: rows}, rows, accessContext)
}

func (h *Handler) respond(c *gin.Context, reportType string, data ReportData, preview interface{}, accessContext middleware.AccessContext) {
	format := c.Query("format")
	if format == "" {
		c.JSON(http.StatusOK, preview)
		return
	}

	out, fname, mime, err := h.service.Export(c.Request.Context(), reportType, format, data, accessContext.UserID, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, out)
}
