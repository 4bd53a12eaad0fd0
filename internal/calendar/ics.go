package calendar

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

const (
	ProductID = "-//EventEase//Campus Event Manager//EN"
	uidDomain = "@eventease.local"
)

// ErrNoEntries is returned for an export with nothing in it; iCalendar
// requires at least one component.
var ErrNoEntries = errors.New("no events to export")

// WriteICS encodes entries as a single VCALENDAR. now is used for DTSTAMP.
func WriteICS(w io.Writer, now time.Time, entries ...Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, e := range entries {
		cal.Children = append(cal.Children, toVEvent(e, now))
	}

	return ical.NewEncoder(w).Encode(cal)
}

// ICS is WriteICS into memory.
func ICS(now time.Time, entries ...Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, now, entries...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toVEvent(e Entry, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID+uidDomain)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetText(ical.PropDescription, e.Description)
	ve.Props.SetText(ical.PropLocation, e.Location)
	return ve
}
