package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/internal/auth"
	"github.com/eventease/campus-backend/internal/monitoring"
)

type Service interface {
	// In-app notifications
	CreateInAppNotification(ctx context.Context, userID, title, message, category string) error
	ListInAppByUser(ctx context.Context, userID string, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id, userID string) error
	Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error)

	// Fan-out helpers
	CreateInAppForRoles(ctx context.Context, roleNames []string, title, message, category string) error
	NotifyUsers(ctx context.Context, userIDs []string, title, message, category string) error

	// Device tokens
	RegisterDeviceToken(ctx context.Context, userID string, req RegisterDeviceRequest) error
	RemoveDeviceToken(ctx context.Context, userID, deviceToken string) error
}

type service struct {
	repo    Repository
	users   auth.Repository
	stream  Stream
	push    Channel
	email   Channel
	monitor *monitoring.Monitor
	logger  zerolog.Logger
}

// Options carries the optional delivery channels; nil channels are skipped.
type Options struct {
	Stream  Stream
	Push    Channel
	Email   Channel
	Monitor *monitoring.Monitor
}

func NewService(repo Repository, users auth.Repository, opts Options, logger zerolog.Logger) Service {
	stream := opts.Stream
	if stream == nil {
		stream = NewLocalStream()
	}
	return &service{
		repo:    repo,
		users:   users,
		stream:  stream,
		push:    opts.Push,
		email:   opts.Email,
		monitor: opts.Monitor,
		logger:  logger.With().Str("component", "notification").Logger(),
	}
}

// CreateInAppNotification stores a bell notification for a specific user and
// publishes it to the user's live stream.
func (s *service) CreateInAppNotification(ctx context.Context, userID, title, message, category string) error {
	item := &InAppNotification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Category:  category,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateInApp(ctx, item); err != nil {
		s.monitor.TrackNotification("inapp", "failure")
		return err
	}
	s.monitor.TrackNotification("inapp", "success")

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if err := s.stream.Publish(ctx, userID, payload); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish in-app notification")
	}
	return nil
}

func (s *service) ListInAppByUser(ctx context.Context, userID string, limit int) ([]InAppNotification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListInAppByUser(ctx, userID, limit)
}

func (s *service) MarkInAppAsRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

func (s *service) Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error) {
	return s.stream.Subscribe(ctx, userID)
}

func (s *service) CreateInAppForRoles(ctx context.Context, roleNames []string, title, message, category string) error {
	if s.users == nil {
		return nil
	}
	users, err := s.users.ListByRole(ctx, roleNames...)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := s.CreateInAppNotification(ctx, u.ID, title, message, category); err != nil {
			s.logger.Warn().Err(err).Str("user_id", u.ID).Msg("in-app fanout failed")
		}
	}
	return nil
}

// NotifyUsers delivers in-app, then push and email where those channels are configured.
func (s *service) NotifyUsers(ctx context.Context, userIDs []string, title, message, category string) error {
	if len(userIDs) == 0 {
		return ErrNoRecipients
	}
	var errs []error
	for _, uid := range userIDs {
		if err := s.CreateInAppNotification(ctx, uid, title, message, category); err != nil {
			errs = append(errs, err)
		}
	}

	if s.push != nil {
		tokens, err := s.repo.GetUserDeviceTokens(ctx, userIDs...)
		if err != nil {
			errs = append(errs, err)
		} else if len(tokens) > 0 {
			errs = append(errs, s.deliver(ctx, s.push, tokens, title, message, fcmBatchSize))
		}
	}

	if s.email != nil && s.users != nil {
		if emails := s.emailsFor(ctx, userIDs); len(emails) > 0 {
			errs = append(errs, s.deliver(ctx, s.email, emails, title, message, emailBatchSize))
		}
	}
	return errors.Join(errs...)
}

func (s *service) deliver(ctx context.Context, ch Channel, recipients []string, subject, body string, batchSize int) error {
	err := sendInBatches(ctx, ch, recipients, subject, body, batchSize, s.logger)
	status := "success"
	if err != nil {
		status = "failure"
	}
	s.monitor.TrackNotification(ch.Name(), status)
	return err
}

func (s *service) emailsFor(ctx context.Context, userIDs []string) []string {
	emails := make([]string, 0, len(userIDs))
	for _, uid := range userIDs {
		u, err := s.users.FindByID(ctx, uid)
		if err != nil {
			s.logger.Debug().Str("user_id", uid).Msg("no email on file")
			continue
		}
		if e := strings.TrimSpace(u.Email); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID string, req RegisterDeviceRequest) error {
	return s.repo.SaveDeviceToken(ctx, &DeviceToken{
		UserID:     userID,
		Token:      strings.TrimSpace(req.DeviceToken),
		DeviceType: req.DeviceType,
		DeviceName: req.DeviceName,
		CreatedAt:  time.Now(),
	})
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID, deviceToken string) error {
	return s.repo.RemoveDeviceToken(ctx, userID, deviceToken)
}
