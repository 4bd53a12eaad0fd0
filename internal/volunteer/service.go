package volunteer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/internal/monitoring"
	"github.com/eventease/campus-backend/middleware"
)

var ErrWriteAccessDenied = errors.New("only organizers can manage volunteer roles")

// Notifier delivers reminders to volunteers.
type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []string, title, message, category string) error
}

type Service interface {
	ListRoles(ctx context.Context, eventID string) ([]Role, error)
	CreateRole(ctx context.Context, req CreateRoleRequest, accessContext middleware.AccessContext, ip string) (*Role, error)
	SignUp(ctx context.Context, roleID string, accessContext middleware.AccessContext, ip string) (*Role, error)
	Withdraw(ctx context.Context, roleID string, accessContext middleware.AccessContext, ip string) (*Role, error)
	SendReminders(ctx context.Context, roleID string, accessContext middleware.AccessContext, ip string) (int, error)
}

type service struct {
	repo     Repository
	events   *event.Registry
	notifier Notifier
	auditSvc auditlog.Service
	monitor  *monitoring.Monitor
	logger   zerolog.Logger
}

func NewService(repo Repository, events *event.Registry, notifier Notifier, auditSvc auditlog.Service, monitor *monitoring.Monitor, logger zerolog.Logger) Service {
	return &service{
		repo:     repo,
		events:   events,
		notifier: notifier,
		auditSvc: auditSvc,
		monitor:  monitor,
		logger:   logger.With().Str("component", "volunteer").Logger(),
	}
}

func (s *service) ListRoles(ctx context.Context, eventID string) ([]Role, error) {
	return s.repo.ListRoles(ctx, strings.TrimSpace(eventID))
}

// ===========================
// 🙋 Create Role
func (s *service) CreateRole(ctx context.Context, req CreateRoleRequest, accessContext middleware.AccessContext, ip string) (*Role, error) {
	details := map[string]interface{}{
		"event_id": req.EventID,
		"role":     req.Name,
		"needed":   req.Needed,
	}
	fail := func(err error) (*Role, error) {
		details["error"] = err.Error()
		s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerRoleAdded, details, ip, auditlog.StatusFailure)
		return nil, err
	}

	if !accessContext.CanWrite() {
		return fail(ErrWriteAccessDenied)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Needed < 1 || len(req.Shifts) == 0 {
		return fail(ErrInvalidRole)
	}
	shifts := make([]string, 0, len(req.Shifts))
	for _, shift := range req.Shifts {
		if _, _, err := ParseShift(shift); err != nil {
			return fail(err)
		}
		shifts = append(shifts, strings.ReplaceAll(strings.TrimSpace(shift), " ", ""))
	}

	e, err := s.events.Get(accessContext.UserID, req.EventID)
	if err != nil {
		return fail(err)
	}

	role := &Role{
		ID:         uuid.NewString(),
		EventID:    e.ID,
		EventTitle: e.Title,
		Name:       name,
		Shifts:     shifts,
		Needed:     req.Needed,
		Signups:    []string{},
		CreatedBy:  accessContext.UserID,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return fail(err)
	}

	details["role_id"] = role.ID
	s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerRoleAdded, details, ip, auditlog.StatusSuccess)
	s.logger.Info().Str("role_id", role.ID).Str("event_id", role.EventID).Msg("volunteer role created")
	return role, nil
}

// ===========================
// ✍️ Sign Up / Withdraw
func (s *service) SignUp(ctx context.Context, roleID string, accessContext middleware.AccessContext, ip string) (*Role, error) {
	role, err := s.repo.AddSignup(ctx, roleID, accessContext.UserID)
	if err != nil {
		s.monitor.TrackVolunteer("signup", resultFor(err))
		s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerSignup, map[string]interface{}{
			"role_id": roleID,
			"error":   err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, err
	}

	s.monitor.TrackVolunteer("signup", "success")
	s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerSignup, map[string]interface{}{
		"role_id":    role.ID,
		"event_id":   role.EventID,
		"volunteers": role.Volunteers,
		"needed":     role.Needed,
	}, ip, auditlog.StatusSuccess)
	return role, nil
}

func (s *service) Withdraw(ctx context.Context, roleID string, accessContext middleware.AccessContext, ip string) (*Role, error) {
	role, err := s.repo.RemoveSignup(ctx, roleID, accessContext.UserID)
	if err != nil {
		s.monitor.TrackVolunteer("withdraw", resultFor(err))
		s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerWithdraw, map[string]interface{}{
			"role_id": roleID,
			"error":   err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, err
	}

	s.monitor.TrackVolunteer("withdraw", "success")
	s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerWithdraw, map[string]interface{}{
		"role_id":    role.ID,
		"volunteers": role.Volunteers,
	}, ip, auditlog.StatusSuccess)
	return role, nil
}

// ===========================
// 🔔 Reminders
func (s *service) SendReminders(ctx context.Context, roleID string, accessContext middleware.AccessContext, ip string) (int, error) {
	if !accessContext.CanWrite() {
		return 0, ErrWriteAccessDenied
	}
	role, err := s.repo.GetRoleByID(ctx, roleID)
	if err != nil {
		return 0, err
	}
	if len(role.Signups) == 0 || s.notifier == nil {
		return 0, nil
	}

	title := fmt.Sprintf("Reminder: %s", role.Name)
	message := fmt.Sprintf("You're volunteering as %s for %s. Shifts: %s.", role.Name, role.EventTitle, strings.Join(role.Shifts, ", "))
	if err := s.notifier.NotifyUsers(ctx, role.Signups, title, message, "volunteer"); err != nil {
		s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerReminders, map[string]interface{}{
			"role_id": role.ID,
			"error":   err.Error(),
		}, ip, auditlog.StatusFailure)
		return 0, err
	}

	s.audit(ctx, accessContext.UserID, auditlog.ActionVolunteerReminders, map[string]interface{}{
		"role_id":    role.ID,
		"recipients": len(role.Signups),
	}, ip, auditlog.StatusSuccess)
	s.logger.Info().Str("role_id", role.ID).Int("recipients", len(role.Signups)).Msg("volunteer reminders sent")
	return len(role.Signups), nil
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, ErrRoleFilled):
		return "filled"
	case errors.Is(err, ErrAlreadySignedUp):
		return "duplicate"
	case errors.Is(err, ErrNotSignedUp):
		return "not_signed_up"
	case errors.Is(err, ErrRoleNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *service) audit(ctx context.Context, userID, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, userID, action, details, ip, status)
}
