package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func hackathon() event.Event {
	return event.SeedEvents()[0]
}

func TestFromEvent(t *testing.T) {
	entry, err := FromEvent(hackathon(), ist)
	require.NoError(t, err)
	assert.True(t, entry.Start.Equal(time.Date(2026, 2, 11, 3, 30, 0, 0, time.UTC)))
	assert.Equal(t, DefaultDuration, entry.End.Sub(entry.Start))

	_, err = FromEvent(event.Event{ID: "bad", Date: "someday"}, time.UTC)
	assert.Error(t, err)
}

func TestBuildLink(t *testing.T) {
	entry, err := FromEvent(hackathon(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t,
		"https://calendar.google.com/calendar/render?action=TEMPLATE"+
			"&text=ELVION+Hackathon"+
			"&details=Learn+about+the+latest+trends+in+AI+and+ML"+
			"&location=RMDSTIC%2C+Warje"+
			"&dates=20260211T090000Z%2F20260211T110000Z",
		BuildLink(entry))
}

func TestBuildLink_UsesUTC(t *testing.T) {
	entry, err := FromEvent(hackathon(), ist)
	require.NoError(t, err)
	assert.Contains(t, BuildLink(entry), "dates=20260211T033000Z%2F20260211T053000Z")
}

func TestICS(t *testing.T) {
	entry, err := FromEvent(hackathon(), time.UTC)
	require.NoError(t, err)
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	data, err := ICS(now, entry)
	require.NoError(t, err)
	text := string(data)

	for _, line := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//EventEase//Campus Event Manager//EN",
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"UID:1@eventease.local",
		"DTSTAMP:20260105T080000Z",
		"DTSTART:20260211T090000Z",
		"DTEND:20260211T110000Z",
		"SUMMARY:ELVION Hackathon",
		"END:VCALENDAR",
	} {
		assert.Contains(t, text, line)
	}

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	location, err := events[0].Props.Text(ical.PropLocation)
	require.NoError(t, err)
	assert.Equal(t, "RMDSTIC, Warje", location)
}

func TestICS_MultipleAndEmpty(t *testing.T) {
	var entries []Entry
	for _, e := range event.SeedEvents() {
		entry, err := FromEvent(e, time.UTC)
		require.NoError(t, err)
		entries = append(entries, entry)
	}
	data, err := ICS(time.Now(), entries...)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "BEGIN:VEVENT"))

	_, err = ICS(time.Now())
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestService_RegisteredICSWithoutRSVPs(t *testing.T) {
	reg := event.NewRegistry(event.SeedEvents())
	svc := NewService(reg, nil, nil, time.UTC, zerolog.Nop())

	_, _, err := svc.RegisteredICS(middleware.AccessContext{UserID: "fresh-student", RoleName: middleware.RoleStudent})
	assert.ErrorIs(t, err, ErrNoEntries)
}

func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer google-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"bad token"}}`))
			return
		}
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ELVION Hackathon", body["summary"])
		assert.Equal(t, "RMDSTIC, Warje", body["location"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"remote-1","htmlLink":"https://calendar.google.com/event?eid=abc"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleSyncer(t *testing.T) {
	srv := fakeGoogle(t)
	syncer := NewGoogleSyncer(option.WithEndpoint(srv.URL + "/"))
	entry, err := FromEvent(hackathon(), time.UTC)
	require.NoError(t, err)

	res, err := syncer.Sync(context.Background(), entry, "google-token")
	require.NoError(t, err)
	assert.Equal(t, "remote-1", res.RemoteID)
	assert.Equal(t, "https://calendar.google.com/event?eid=abc", res.HTMLLink)

	_, err = syncer.Sync(context.Background(), entry, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = syncer.Sync(context.Background(), entry, "expired")
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := fakeGoogle(t)

	reg := event.NewRegistry(event.SeedEvents())
	audit := auditlog.NewService(auditlog.NewMemoryRepository(), zerolog.Nop())
	svc := NewService(reg, NewGoogleSyncer(option.WithEndpoint(srv.URL+"/")), audit, time.UTC, zerolog.Nop())
	h := NewHandler(svc)

	viewer := middleware.AccessContext{UserID: "stu", RoleName: middleware.RoleStudent, PermissionType: middleware.PermissionReadonly}
	_, err := reg.ToggleRSVP(viewer.UserID, "2")
	require.NoError(t, err)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Viewer") == "fresh" {
			c.Set("access_context", middleware.AccessContext{UserID: "fresh-student", RoleName: middleware.RoleStudent, PermissionType: middleware.PermissionReadonly})
		} else {
			c.Set("access_context", viewer)
		}
		c.Next()
	})
	r.GET("/events/ics", h.GetMyICS)
	r.GET("/events/:id/calendar-link", h.GetLink)
	r.GET("/events/:id/ics", h.GetICS)
	r.POST("/events/:id/calendar-sync", h.Sync)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		fresh  bool
		status int
		check  func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{"link", http.MethodGet, "/events/1/calendar-link", "", false, http.StatusOK, func(t *testing.T, w *httptest.ResponseRecorder) {
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.True(t, strings.HasPrefix(body["url"], "https://calendar.google.com/calendar/render?action=TEMPLATE"))
		}},
		{"link missing", http.MethodGet, "/events/9/calendar-link", "", false, http.StatusNotFound, nil},
		{"ics", http.MethodGet, "/events/3/ics", "", false, http.StatusOK, func(t *testing.T, w *httptest.ResponseRecorder) {
			assert.Equal(t, icsContentType, w.Header().Get("Content-Type"))
			assert.Equal(t, "attachment; filename=event-3.ics", w.Header().Get("Content-Disposition"))
			assert.Contains(t, w.Body.String(), "UID:3@eventease.local")
		}},
		{"my ics", http.MethodGet, "/events/ics", "", false, http.StatusOK, func(t *testing.T, w *httptest.ResponseRecorder) {
			assert.Equal(t, 1, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
			assert.Contains(t, w.Body.String(), "UID:2@eventease.local")
		}},
		{"my ics without rsvps", http.MethodGet, "/events/ics", "", true, http.StatusNotFound, func(t *testing.T, w *httptest.ResponseRecorder) {
			assert.Contains(t, w.Body.String(), "no registered events")
		}},
		{"sync", http.MethodPost, "/events/1/calendar-sync", `{"access_token":"google-token"}`, false, http.StatusOK, nil},
		{"sync without token", http.MethodPost, "/events/1/calendar-sync", `{}`, false, http.StatusBadRequest, nil},
		{"sync rejected upstream", http.MethodPost, "/events/1/calendar-sync", `{"access_token":"nope"}`, false, http.StatusBadGateway, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.fresh {
				req.Header.Set("X-Viewer", "fresh")
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}

	synced, err := audit.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{Action: auditlog.ActionCalendarSynced, Status: auditlog.StatusSuccess})
	require.NoError(t, err)
	assert.Equal(t, int64(1), synced.Total)
}
