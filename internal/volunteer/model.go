package volunteer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventease/campus-backend/internal/event"
)

var (
	ErrRoleNotFound    = errors.New("volunteer role not found")
	ErrRoleFilled      = errors.New("volunteer role is already filled")
	ErrAlreadySignedUp = errors.New("already signed up for this role")
	ErrNotSignedUp     = errors.New("not signed up for this role")
	ErrInvalidShift    = errors.New("shift must be HH:MM-HH:MM with start before end")
	ErrInvalidRole     = errors.New("invalid volunteer role")
)

const shiftClock = "15:04"

// Role is a volunteer position attached to an event.
type Role struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	Name       string    `json:"role"`
	Shifts     []string  `json:"shifts"`
	Volunteers int       `json:"volunteers"`
	Needed     int       `json:"needed"`
	Signups    []string  `json:"signups"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filled reports whether no more sign-ups are accepted.
func (r Role) Filled() bool {
	return r.Volunteers >= r.Needed
}

// Remaining is the number of open positions.
func (r Role) Remaining() int {
	if r.Filled() {
		return 0
	}
	return r.Needed - r.Volunteers
}

type CreateRoleRequest struct {
	EventID string   `json:"event_id" binding:"required"`
	Name    string   `json:"role" binding:"required"`
	Shifts  []string `json:"shifts" binding:"required,min=1"`
	Needed  int      `json:"needed" binding:"required,min=1"`
}

// RoleView adds the derived fields the dashboard renders.
type RoleView struct {
	Role
	Filled    bool `json:"filled"`
	Remaining int  `json:"remaining"`
}

func NewView(r Role) RoleView {
	return RoleView{Role: r, Filled: r.Filled(), Remaining: r.Remaining()}
}

// ParseShift validates an "HH:MM-HH:MM" range and returns its bounds as
// offsets from midnight.
func ParseShift(shift string) (time.Duration, time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(shift), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidShift, shift)
	}
	start, err := time.Parse(shiftClock, strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidShift, shift)
	}
	end, err := time.Parse(shiftClock, strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidShift, shift)
	}
	if !start.Before(end) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidShift, shift)
	}
	midnight := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Sub(midnight), end.Sub(midnight), nil
}

// SeedRoles returns the roles the dashboard ships with, attached to the
// first seeded event.
func SeedRoles() []Role {
	host := event.SeedEvents()[0]
	return []Role{
		{
			ID:         "1",
			EventID:    host.ID,
			EventTitle: host.Title,
			Name:       "Registration Desk",
			Shifts:     []string{"10:00-12:00", "12:00-14:00"},
			Volunteers: 3,
			Needed:     5,
			Signups:    []string{},
		},
		{
			ID:         "2",
			EventID:    host.ID,
			EventTitle: host.Title,
			Name:       "Event Host",
			Shifts:     []string{"14:00-17:00"},
			Volunteers: 1,
			Needed:     2,
			Signups:    []string{},
		},
	}
}
