package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

type Service interface {
	LogAction(ctx context.Context, userID string, action string, details map[string]interface{}, ip string, status string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error)
}

type service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) Service {
	return &service{repo: repo, logger: logger.With().Str("component", "auditlog").Logger()}
}

// LogAction creates a new audit log entry. Storage failures are logged and
// returned; callers treat them as non-fatal.
func (s *service) LogAction(ctx context.Context, userID string, action string, details map[string]interface{}, ip string, status string) error {
	if details == nil {
		details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	entry := &AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   datatypes.JSON(detailsJSON),
		IPAddress: ip,
		Status:    status,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", action).Str("user_id", userID).Msg("failed to write audit log")
		return err
	}
	return nil
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	filter.normalize()

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetAuditLogByID retrieves a specific audit log by ID
func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get audit log %d: %w", id, err)
	}
	return log, nil
}
