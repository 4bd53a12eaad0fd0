package reports

import (
	"errors"
	"time"
)

const (
	ReportTypeEvents    = "events"
	ReportTypeAttendees = "attendees"

	// Date range constants
	DateRangeAll     = "all"
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"

	// Report format constants
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"

	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format, use csv, excel or pdf")
	ErrUnsupportedReport = errors.New("unsupported report type")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// EventReportRow is one event with its attendance.
type EventReportRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Attendees   int    `json:"attendees"`
	Capacity    int    `json:"capacity"`
	PercentFull int    `json:"percent_full"`
	Status      string `json:"status"`
}

// AttendeeReportRow is one RSVP on an event.
type AttendeeReportRow struct {
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// ReportData holds the rows for whichever report is being exported.
type ReportData struct {
	Events    []EventReportRow
	Attendees []AttendeeReportRow
}

// ReportRequest carries the filters for an events report.
type ReportRequest struct {
	Category  string
	DateRange string
	StartDate time.Time
	EndDate   time.Time
}
