package event

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	StatusPublished = "published"

	DefaultCapacity = 100
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrEventFull       = errors.New("event is at full capacity")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidEvent    = errors.New("invalid event")
)

// Category is the closed set of event kinds shown on the discovery page.
type Category string

const (
	CategoryTech     Category = "tech"
	CategorySports   Category = "sports"
	CategoryCultural Category = "cultural"

	// CategoryAll is a filter value only, never stored on an event.
	CategoryAll = "all"
)

var Categories = []Category{CategoryTech, CategorySports, CategoryCultural}

func (c Category) Valid() bool {
	switch c {
	case CategoryTech, CategorySports, CategoryCultural:
		return true
	}
	return false
}

// ParseCategory normalizes user input. An empty string maps to "all".
func ParseCategory(raw string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" || c == CategoryAll {
		return CategoryAll, nil
	}
	if !Category(c).Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

// ============================
// 🔷 Event
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     Category  `json:"category"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Time         string    `json:"time"` // HH:MM
	Location     string    `json:"location"`
	Attendees    int       `json:"attendees"`
	Capacity     int       `json:"capacity"`
	RSVPed       bool      `json:"rsvped"`
	Image        string    `json:"image,omitempty"`
	PosterPrompt string    `json:"poster_prompt,omitempty"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PercentFull is attendees/capacity rounded to the nearest percent.
func (e Event) PercentFull() int {
	if e.Capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(e.Attendees) / float64(e.Capacity) * 100))
}

func (e Event) IsFull() bool {
	return e.Attendees >= e.Capacity
}

// StartsAt combines Date and Time in loc. A missing time means midnight.
func (e Event) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	clock := e.Time
	if clock == "" {
		clock = "00:00"
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+clock, loc)
}

// Validate checks the fields an organizer supplies.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrInvalidEvent)
	}
	if e.Time != "" {
		if _, err := time.Parse(TimeLayout, e.Time); err != nil {
			return fmt.Errorf("%w: invalid time format, use HH:MM in 24-hour format", ErrInvalidEvent)
		}
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if e.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidEvent)
	}
	if e.Attendees < 0 {
		return fmt.Errorf("%w: attendees cannot be negative", ErrInvalidEvent)
	}
	return nil
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title               string `json:"title" binding:"required"`
	Category            string `json:"category"`
	Date                string `json:"date" binding:"required"` // 🛠 "2006-01-02"
	Time                string `json:"time"`                    // 🛠 "15:04"
	Location            string `json:"location"`
	Capacity            int    `json:"capacity"`
	Description         string `json:"description"`
	Image               string `json:"image"`
	GenerateDescription bool   `json:"generate_description"`
}

// ============================
// 📊 Dashboard Stats
type StatsResponse struct {
	TotalEvents    int `json:"total_events"`
	UpcomingEvents int `json:"upcoming_events"`
	TotalRSVPs     int `json:"total_rsvps"`
	TotalCapacity  int `json:"total_capacity"`
	FullEvents     int `json:"full_events"`
}

// EventView decorates an Event with derived display fields.
type EventView struct {
	Event
	PercentFull int  `json:"percent_full"`
	Full        bool `json:"full"`
}

func NewView(e Event) EventView {
	return EventView{Event: e, PercentFull: e.PercentFull(), Full: e.IsFull()}
}

func NewViews(events []Event) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, NewView(e))
	}
	return views
}
