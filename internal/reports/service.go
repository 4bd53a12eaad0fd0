package reports

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/auth"
	"github.com/eventease/campus-backend/internal/event"
)

// ReportService builds report rows from the registry and exports them.
type ReportService interface {
	EventRows(req ReportRequest) ([]EventReportRow, error)
	AttendeeRows(ctx context.Context, eventID string) ([]AttendeeReportRow, error)
	Export(ctx context.Context, reportType, format string, data ReportData, userID, ip string) ([]byte, string, string, error)
}

type reportService struct {
	registry *event.Registry
	users    auth.Repository
	exporter ReportExporter
	auditSvc auditlog.Service
	location *time.Location
	logger   zerolog.Logger
}

func NewReportService(reg *event.Registry, users auth.Repository, exporter ReportExporter, auditSvc auditlog.Service, loc *time.Location, logger zerolog.Logger) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if exporter == nil {
		exporter = NewReportExporter()
	}
	return &reportService{
		registry: reg,
		users:    users,
		exporter: exporter,
		auditSvc: auditSvc,
		location: loc,
		logger:   logger.With().Str("component", "reports").Logger(),
	}
}

// EventRows lists events in registry order, filtered by category and event date.
func (s *reportService) EventRows(req ReportRequest) ([]EventReportRow, error) {
	category, err := event.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	rows := make([]EventReportRow, 0)
	for _, e := range event.Filter(s.registry.List(""), "", category) {
		day, err := time.ParseInLocation(event.DateLayout, e.Date, s.location)
		if err != nil || !inRange(day, req.StartDate, req.EndDate) {
			continue
		}
		rows = append(rows, EventReportRow{
			ID:          e.ID,
			Title:       e.Title,
			Category:    string(e.Category),
			Date:        e.Date,
			Time:        e.Time,
			Location:    e.Location,
			Attendees:   e.Attendees,
			Capacity:    e.Capacity,
			PercentFull: e.PercentFull(),
			Status:      e.Status,
		})
	}
	return rows, nil
}

// AttendeeRows lists the users who RSVP'd to one event.
func (s *reportService) AttendeeRows(ctx context.Context, eventID string) ([]AttendeeReportRow, error) {
	e, err := s.registry.Get("", eventID)
	if err != nil {
		return nil, err
	}
	ids, err := s.registry.Attendees(eventID)
	if err != nil {
		return nil, err
	}

	rows := make([]AttendeeReportRow, 0, len(ids))
	for _, id := range ids {
		row := AttendeeReportRow{EventID: e.ID, EventTitle: e.Title, UserID: id}
		if s.users != nil {
			if u, err := s.users.FindByID(ctx, id); err == nil {
				row.Name = u.Name
				row.Email = u.Email
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) Export(ctx context.Context, reportType, format string, data ReportData, userID, ip string) ([]byte, string, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	out, filename, mime, err := s.exporter.Export(reportType, format, data)

	details := map[string]interface{}{
		"report_type": reportType,
		"format":      format,
		"rows":        len(data.Events) + len(data.Attendees),
	}
	status := auditlog.StatusSuccess
	if err != nil {
		details["error"] = err.Error()
		status = auditlog.StatusFailure
	} else {
		details["filename"] = filename
	}
	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(ctx, userID, auditlog.ActionReportExported, details, ip, status)
	}
	if err != nil {
		return nil, "", "", err
	}

	s.logger.Info().Str("report_type", reportType).Str("format", format).Str("user_id", userID).Msg("report exported")
	return out, filename, mime, nil
}
