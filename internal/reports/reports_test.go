package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/auth"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

var fixedNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func sampleRows() []EventReportRow {
	return []EventReportRow{
		{ID: "1", Title: "ELVION Hackathon", Category: "tech", Date: "2026-02-11", Time: "09:00", Location: "RMDSTIC, Warje", Attendees: 45, Capacity: 100, PercentFull: 45, Status: "published"},
		{ID: "2", Title: "Sinhgad Olumpus 2026", Category: "sports", Date: "2026-02-14", Time: "10:00", Location: "Campus ground", Attendees: 120, Capacity: 200, PercentFull: 60, Status: "published"},
	}
}

func newExporter() ReportExporter {
	return &reportExporter{now: func() time.Time { return fixedNow }}
}

func TestExport_CSV(t *testing.T) {
	out, name, mime, err := newExporter().Export(ReportTypeEvents, FormatCSV, ReportData{Events: sampleRows()})
	require.NoError(t, err)
	assert.Equal(t, "events_report_20260210_120000.csv", name)
	assert.Equal(t, "text/csv", mime)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Title", records[0][1])
	assert.Equal(t, []string{"1", "ELVION Hackathon", "tech", "2026-02-11", "09:00", "RMDSTIC, Warje", "45", "100", "45", "published"}, records[1])
}

func TestExport_Excel(t *testing.T) {
	out, name, mime, err := newExporter().Export(ReportTypeEvents, FormatExcel, ReportData{Events: sampleRows()})
	require.NoError(t, err)
	assert.Equal(t, "events_report_20260210_120000.xlsx", name)
	assert.Equal(t, mimeExcel, mime)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Events"}, f.GetSheetList())

	rows, err := f.GetRows("Events")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Sinhgad Olumpus 2026", rows[2][1])
	assert.Equal(t, "200", rows[2][7])
}

func TestExport_PDF(t *testing.T) {
	out, name, mime, err := newExporter().Export(ReportTypeAttendees, FormatPDF, ReportData{Attendees: []AttendeeReportRow{
		{EventID: "1", EventTitle: "ELVION Hackathon", UserID: "u-1", Name: "asha", Email: "asha@campus.edu"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "attendees_report_20260210_120000.pdf", name)
	assert.Equal(t, "application/pdf", mime)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestExport_Unsupported(t *testing.T) {
	_, _, _, err := newExporter().Export(ReportTypeEvents, "docx", ReportData{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, _, _, err = newExporter().Export("donations", FormatCSV, ReportData{})
	assert.ErrorIs(t, err, ErrUnsupportedReport)
}

func TestGetDateRange(t *testing.T) {
	tests := []struct {
		name       string
		dateRange  string
		start, end string
		wantStart  time.Time
		wantEnd    time.Time
		wantErr    bool
	}{
		{name: "all", dateRange: "", wantStart: time.Time{}, wantEnd: time.Time{}},
		{name: "daily", dateRange: DateRangeDaily, wantStart: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 2, 10, 23, 59, 59, 0, time.UTC)},
		{name: "weekly", dateRange: DateRangeWeekly, wantStart: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 2, 16, 23, 59, 59, 0, time.UTC)},
		{name: "monthly", dateRange: DateRangeMonthly, wantStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)},
		{name: "yearly", dateRange: DateRangeYearly, wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)},
		{name: "custom", dateRange: DateRangeCustom, start: "2026-03-01", end: "2026-03-02", wantStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)},
		{name: "custom missing end", dateRange: DateRangeCustom, start: "2026-03-01", wantErr: true},
		{name: "custom reversed", dateRange: DateRangeCustom, start: "2026-03-05", end: "2026-03-01", wantErr: true},
		{name: "unknown", dateRange: "fortnightly", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := GetDateRange(tt.dateRange, tt.start, tt.end, fixedNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDateRange)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), start)
			assert.True(t, tt.wantEnd.Equal(end), end)
		})
	}
}

func newService(t *testing.T) (ReportService, *event.Registry, auditlog.Service) {
	t.Helper()
	reg := event.NewRegistry(event.SeedEvents())
	users := auth.NewMemoryRepository()
	require.NoError(t, users.Save(context.Background(), &auth.User{ID: "u-1", Name: "asha", Email: "asha@campus.edu", Role: auth.RoleStudent}))
	audit := auditlog.NewService(auditlog.NewMemoryRepository(), zerolog.Nop())
	return NewReportService(reg, users, newExporter(), audit, time.UTC, zerolog.Nop()), reg, audit
}

func TestService_EventRows(t *testing.T) {
	svc, _, _ := newService(t)

	all, err := svc.EventRows(ReportRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, 45, all[0].PercentFull)

	sports, err := svc.EventRows(ReportRequest{Category: "sports"})
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, "2", sports[0].ID)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	old, err := svc.EventRows(ReportRequest{StartDate: start, EndDate: end})
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, "3", old[0].ID)

	_, err = svc.EventRows(ReportRequest{Category: "music"})
	assert.ErrorIs(t, err, event.ErrInvalidCategory)
}

func TestService_AttendeeRows(t *testing.T) {
	svc, reg, _ := newService(t)
	_, err := reg.ToggleRSVP("u-1", "1")
	require.NoError(t, err)
	_, err = reg.ToggleRSVP("u-unknown", "1")
	require.NoError(t, err)

	rows, err := svc.AttendeeRows(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, AttendeeReportRow{EventID: "1", EventTitle: "ELVION Hackathon", UserID: "u-1", Name: "asha", Email: "asha@campus.edu"}, rows[0])
	assert.Equal(t, "u-unknown", rows[1].UserID)
	assert.Empty(t, rows[1].Email)

	_, err = svc.AttendeeRows(context.Background(), "404")
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, audit := newService(t)
	h := NewHandler(svc)
	h.now = func() time.Time { return fixedNow }

	ac := middleware.AccessContext{UserID: "org", RoleName: middleware.RoleOrganizer, PermissionType: middleware.PermissionFull}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("access_context", ac); c.Next() })
	r.GET("/reports/events", h.GetEventsReport)
	r.GET("/reports/events/:id/attendees", h.GetAttendeesReport)

	tests := []struct {
		name   string
		path   string
		status int
		mime   string
	}{
		{"json preview", "/reports/events", http.StatusOK, "application/json; charset=utf-8"},
		{"csv", "/reports/events?format=csv", http.StatusOK, "text/csv"},
		{"excel", "/reports/events?format=excel&category=tech", http.StatusOK, mimeExcel},
		{"pdf", "/reports/events?format=pdf&date_range=custom&start_date=2026-02-01&end_date=2026-02-28", http.StatusOK, "application/pdf"},
		{"bad format", "/reports/events?format=docx", http.StatusBadRequest, ""},
		{"bad category", "/reports/events?category=music", http.StatusBadRequest, ""},
		{"bad range", "/reports/events?date_range=custom", http.StatusBadRequest, ""},
		{"attendees", "/reports/events/2/attendees?format=csv", http.StatusOK, "text/csv"},
		{"attendees missing", "/reports/events/9/attendees", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.mime != "" {
				assert.Equal(t, tt.mime, w.Header().Get("Content-Type"))
			}
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/events?category=cultural", nil))
	var rows []EventReportRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Sinhgad spring fest 2026", rows[0].Title)

	exported, err := audit.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{Action: auditlog.ActionReportExported, Status: auditlog.StatusSuccess})
	require.NoError(t, err)
	assert.Equal(t, int64(4), exported.Total)
	failed, _ := audit.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{Action: auditlog.ActionReportExported, Status: auditlog.StatusFailure})
	assert.Equal(t, int64(1), failed.Total)
}
