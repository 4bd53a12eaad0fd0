package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rsvpOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_rsvp_operations_total",
			Help: "Total RSVP toggles by outcome",
		},
		[]string{"result"},
	)

	eventsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_events_created_total",
			Help: "Total events created by category",
		},
		[]string{"category"},
	)

	eventAttendees = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventease_event_attendees",
			Help: "Current attendee count per event",
		},
		[]string{"event_id"},
	)

	eventFillRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventease_event_fill_ratio",
			Help: "Attendees divided by capacity per event",
		},
		[]string{"event_id"},
	)

	aiGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_ai_generations_total",
			Help: "AI helper generations by kind and result",
		},
		[]string{"kind", "result"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_notifications_total",
			Help: "Notifications dispatched by channel and status",
		},
		[]string{"channel", "status"},
	)

	volunteerSignups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_volunteer_signups_total",
			Help: "Volunteer sign-ups and withdrawals by outcome",
		},
		[]string{"operation", "result"},
	)

	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventease_active_goroutines",
			Help: "Current number of goroutines",
		},
	)
)

// Monitor records application metrics. A nil *Monitor is valid and records
// nothing.
type Monitor struct {
	interval time.Duration
}

func NewMonitor() *Monitor {
	return &Monitor{interval: 30 * time.Second}
}

// Start samples runtime gauges until ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			goroutineCount.Set(float64(runtime.NumGoroutine()))
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// TrackRSVP counts toggles by outcome. Per-event figures live on the
// attendance gauges, which only ever see registered event IDs.
func (m *Monitor) TrackRSVP(result string) {
	if m == nil {
		return
	}
	rsvpOperations.WithLabelValues(result).Inc()
}

func (m *Monitor) TrackEventCreated(category string) {
	if m == nil {
		return
	}
	eventsCreated.WithLabelValues(category).Inc()
}

func (m *Monitor) SetAttendance(eventID string, attendees, capacity int) {
	if m == nil {
		return
	}
	eventAttendees.WithLabelValues(eventID).Set(float64(attendees))
	if capacity > 0 {
		eventFillRatio.WithLabelValues(eventID).Set(float64(attendees) / float64(capacity))
	}
}

func (m *Monitor) TrackGeneration(kind, result string) {
	if m == nil {
		return
	}
	aiGenerations.WithLabelValues(kind, result).Inc()
}

func (m *Monitor) TrackNotification(channel, status string) {
	if m == nil {
		return
	}
	notificationsSent.WithLabelValues(channel, status).Inc()
}

func (m *Monitor) TrackVolunteer(operation, result string) {
	if m == nil {
		return
	}
	volunteerSignups.WithLabelValues(operation, result).Inc()
}
