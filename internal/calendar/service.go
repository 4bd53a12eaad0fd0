package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

// Service renders registry events for external calendars.
type Service struct {
	Registry *event.Registry
	Syncer   Syncer
	AuditSvc auditlog.Service
	Location *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(reg *event.Registry, syncer Syncer, auditSvc auditlog.Service, loc *time.Location, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Registry: reg,
		Syncer:   syncer,
		AuditSvc: auditSvc,
		Location: loc,
		now:      time.Now,
		logger:   logger.With().Str("component", "calendar").Logger(),
	}
}

func (s *Service) entry(viewerID, id string) (Entry, error) {
	e, err := s.Registry.Get(viewerID, id)
	if err != nil {
		return Entry{}, err
	}
	return FromEvent(e, s.Location)
}

// Link returns the quick-add URL for one event.
func (s *Service) Link(accessContext middleware.AccessContext, id string) (string, error) {
	entry, err := s.entry(accessContext.UserID, id)
	if err != nil {
		return "", err
	}
	return BuildLink(entry), nil
}

// EventICS exports one event.
func (s *Service) EventICS(accessContext middleware.AccessContext, id string) ([]byte, string, error) {
	entry, err := s.entry(accessContext.UserID, id)
	if err != nil {
		return nil, "", err
	}
	data, err := ICS(s.now(), entry)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("event-%s.ics", id), nil
}

// RegisteredICS exports every event the viewer RSVP'd to.
func (s *Service) RegisteredICS(accessContext middleware.AccessContext) ([]byte, string, error) {
	events := s.Registry.Registered(accessContext.UserID)
	entries := make([]Entry, 0, len(events))
	for _, e := range events {
		entry, err := FromEvent(e, s.Location)
		if err != nil {
			s.logger.Warn().Err(err).Str("event_id", e.ID).Msg("skipping event with unparseable start")
			continue
		}
		entries = append(entries, entry)
	}
	data, err := ICS(s.now(), entries...)
	if err != nil {
		return nil, "", err
	}
	return data, "my-events.ics", nil
}

// Sync copies an event into the viewer's Google Calendar.
func (s *Service) Sync(ctx context.Context, accessContext middleware.AccessContext, id, accessToken, ip string) (*SyncResult, error) {
	entry, err := s.entry(accessContext.UserID, id)
	if err != nil {
		return nil, err
	}

	result, err := s.Syncer.Sync(ctx, entry, accessToken)
	if err != nil {
		s.audit(ctx, accessContext.UserID, map[string]interface{}{"event_id": id, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}

	s.audit(ctx, accessContext.UserID, map[string]interface{}{"event_id": id, "remote_id": result.RemoteID}, ip, auditlog.StatusSuccess)
	s.logger.Info().Str("event_id", id).Str("user_id", accessContext.UserID).Msg("event synced to calendar")
	return result, nil
}

func (s *Service) audit(ctx context.Context, userID string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(ctx, userID, auditlog.ActionCalendarSynced, details, ip, status)
}
