package notification

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("notification not found")
	ErrNotConfigured  = errors.New("channel not configured")
	ErrNoRecipients   = errors.New("no recipients specified")
	ErrInvalidPayload = errors.New("invalid domain event payload")
)

// Categories shown on the bell icon.
const (
	CategoryEvent     = "event"
	CategoryVolunteer = "volunteer"
	CategorySystem    = "system"
)

// InAppNotification - per-user, in-app bell notifications
type InAppNotification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// DeviceToken - a registered push target for a user
type DeviceToken struct {
	UserID     string    `json:"user_id"`
	Token      string    `json:"device_token"`
	DeviceType string    `json:"device_type"` // android, ios, web
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
	DeviceType  string `json:"device_type"`
	DeviceName  string `json:"device_name"`
}
