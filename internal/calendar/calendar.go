package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/eventease/campus-backend/internal/event"
)

// DefaultDuration is used for every event; the registry stores only a start.
const DefaultDuration = 2 * time.Hour

const (
	linkBase    = "https://calendar.google.com/calendar/render"
	stampLayout = "20060102T150405Z"
)

// Entry is an event placed on the timeline.
type Entry struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// FromEvent anchors an event's local date and time in loc.
func FromEvent(e event.Event, loc *time.Location) (Entry, error) {
	start, err := e.StartsAt(loc)
	if err != nil {
		return Entry{}, fmt.Errorf("event %s: %w", e.ID, err)
	}
	return Entry{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       start,
		End:         start.Add(DefaultDuration),
	}, nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// BuildLink returns a Google Calendar quick-add URL for the entry.
func BuildLink(e Entry) string {
	params := [][2]string{
		{"action", "TEMPLATE"},
		{"text", e.Title},
		{"details", e.Description},
		{"location", e.Location},
		{"dates", stamp(e.Start) + "/" + stamp(e.End)},
	}
	var b strings.Builder
	b.WriteString(linkBase)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}
