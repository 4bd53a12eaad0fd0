package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Actions recorded by the services.
const (
	ActionUserLogin          = "USER_LOGIN"
	ActionUserLogout         = "USER_LOGOUT"
	ActionEventCreated       = "EVENT_CREATED"
	ActionEventRSVPAdded     = "EVENT_RSVP_ADDED"
	ActionEventRSVPRemoved   = "EVENT_RSVP_REMOVED"
	ActionCalendarSynced     = "EVENT_CALENDAR_SYNCED"
	ActionVolunteerRoleAdded = "VOLUNTEER_ROLE_CREATED"
	ActionVolunteerSignup    = "VOLUNTEER_SIGNUP"
	ActionVolunteerWithdraw  = "VOLUNTEER_WITHDRAW"
	ActionVolunteerReminders = "VOLUNTEER_REMINDERS_SENT"
	ActionReportExported     = "REPORT_EXPORTED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string         `gorm:"size:64;index" json:"user_id"` // empty for anonymous (e.g. failed login)
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   string     `json:"user_id"`
	Action   string     `json:"action"`
	Status   string     `json:"status"`
	FromDate *time.Time `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

func (f *AuditLogFilter) normalize() {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
