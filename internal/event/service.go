package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/monitoring"
	"github.com/eventease/campus-backend/middleware"
)

var ErrWriteAccessDenied = errors.New("write access denied")

// DescriptionWriter drafts a description for a new event.
type DescriptionWriter interface {
	WriteDescription(ctx context.Context, title, category string) (string, error)
}

// Service wraps business logic for campus events
type Service struct {
	Registry *Registry
	AuditSvc auditlog.Service
	Writer   DescriptionWriter
	Monitor  *monitoring.Monitor
	Location *time.Location
	logger   zerolog.Logger
}

func NewService(reg *Registry, auditSvc auditlog.Service, writer DescriptionWriter, monitor *monitoring.Monitor, loc *time.Location, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Registry: reg,
		AuditSvc: auditSvc,
		Writer:   writer,
		Monitor:  monitor,
		Location: loc,
		logger:   logger.With().Str("component", "event").Logger(),
	}
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(ctx context.Context, req *CreateEventRequest, accessContext middleware.AccessContext, ip string) (*Event, error) {
	details := map[string]interface{}{
		"title":    req.Title,
		"category": req.Category,
		"date":     req.Date,
	}

	if !accessContext.CanWrite() {
		details["error"] = ErrWriteAccessDenied.Error()
		s.audit(ctx, accessContext.UserID, auditlog.ActionEventCreated, details, ip, auditlog.StatusFailure)
		return nil, ErrWriteAccessDenied
	}

	category := Category(strings.ToLower(strings.TrimSpace(req.Category)))
	if category == "" {
		category = CategoryTech
	}
	capacity := req.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	description := strings.TrimSpace(req.Description)
	if description == "" && req.GenerateDescription && s.Writer != nil {
		generated, err := s.Writer.WriteDescription(ctx, req.Title, string(category))
		if err != nil {
			s.logger.Warn().Err(err).Str("title", req.Title).Msg("description generation failed, creating without one")
		}
		description = generated
	}

	created, err := s.Registry.Create(Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: description,
		Category:    category,
		Date:        strings.TrimSpace(req.Date),
		Time:        strings.TrimSpace(req.Time),
		Location:    strings.TrimSpace(req.Location),
		Capacity:    capacity,
		Image:       req.Image,
		Status:      StatusPublished,
		CreatedBy:   accessContext.UserID,
	})
	if err != nil {
		details["error"] = err.Error()
		s.audit(ctx, accessContext.UserID, auditlog.ActionEventCreated, details, ip, auditlog.StatusFailure)
		return nil, err
	}

	details["event_id"] = created.ID
	details["capacity"] = created.Capacity
	s.audit(ctx, accessContext.UserID, auditlog.ActionEventCreated, details, ip, auditlog.StatusSuccess)
	s.Monitor.TrackEventCreated(string(created.Category))
	s.Monitor.SetAttendance(created.ID, created.Attendees, created.Capacity)
	s.logger.Info().Str("event_id", created.ID).Str("user_id", accessContext.UserID).Msg("event created")

	return &created, nil
}

// ===========================
// 🔍 Queries

// ListEvents applies search and category filters to the viewer's listing.
func (s *Service) ListEvents(accessContext middleware.AccessContext, search, category string) ([]Event, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.Registry.Search(accessContext.UserID, strings.TrimSpace(search), cat), nil
}

func (s *Service) GetEvent(accessContext middleware.AccessContext, id string) (*Event, error) {
	e, err := s.Registry.Get(accessContext.UserID, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) MyEvents(accessContext middleware.AccessContext) []Event {
	events := s.Registry.Registered(accessContext.UserID)
	if events == nil {
		return []Event{}
	}
	return events
}

func (s *Service) GetStats() StatsResponse {
	return s.Registry.Stats(s.Location)
}

// ===========================
// ✅ RSVP
func (s *Service) ToggleRSVP(ctx context.Context, id string, accessContext middleware.AccessContext, ip string) (*Event, error) {
	updated, err := s.Registry.ToggleRSVP(accessContext.UserID, id)
	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, ErrEventFull):
			result = "full"
		case errors.Is(err, ErrEventNotFound):
			result = "not_found"
		}
		s.Monitor.TrackRSVP(result)
		s.audit(ctx, accessContext.UserID, auditlog.ActionEventRSVPAdded, map[string]interface{}{
			"event_id": id,
			"error":    err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, err
	}

	action, result := auditlog.ActionEventRSVPRemoved, "removed"
	if updated.RSVPed {
		action, result = auditlog.ActionEventRSVPAdded, "added"
	}
	s.audit(ctx, accessContext.UserID, action, map[string]interface{}{
		"event_id":  updated.ID,
		"title":     updated.Title,
		"attendees": updated.Attendees,
	}, ip, auditlog.StatusSuccess)
	s.Monitor.TrackRSVP(result)
	s.Monitor.SetAttendance(updated.ID, updated.Attendees, updated.Capacity)

	return &updated, nil
}

func (s *Service) audit(ctx context.Context, userID, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(ctx, userID, action, details, ip, status)
}
