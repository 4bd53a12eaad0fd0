package volunteer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyUsers(ctx context.Context, userIDs []string, title, message, category string) error {
	args := m.Called(ctx, userIDs, title, message, category)
	return args.Error(0)
}

var (
	student   = middleware.AccessContext{UserID: "stu", RoleName: middleware.RoleStudent, PermissionType: middleware.PermissionReadonly}
	organizer = middleware.AccessContext{UserID: "org", RoleName: middleware.RoleOrganizer, PermissionType: middleware.PermissionFull}
)

func newTestService(notifier Notifier) (Service, auditlog.Service) {
	audit := auditlog.NewService(auditlog.NewMemoryRepository(), zerolog.Nop())
	svc := NewService(NewMemoryRepository(SeedRoles()), event.NewRegistry(event.SeedEvents()), notifier, audit, nil, zerolog.Nop())
	return svc, audit
}

func TestParseShift(t *testing.T) {
	tests := []struct {
		shift string
		ok    bool
	}{
		{"10:00-12:00", true},
		{" 09:30 - 10:15 ", true},
		{"12:00-10:00", false},
		{"10:00-10:00", false},
		{"10-12", false},
		{"10:00", false},
		{"25:00-26:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.shift, func(t *testing.T) {
			_, _, err := ParseShift(tt.shift)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidShift)
			}
		})
	}
}

func TestSeedRoles(t *testing.T) {
	roles := SeedRoles()
	require.Len(t, roles, 2)
	assert.Equal(t, "Registration Desk", roles[0].Name)
	assert.Equal(t, 2, roles[0].Remaining())
	assert.False(t, roles[0].Filled())
	assert.Equal(t, "Event Host", roles[1].Name)
	assert.Equal(t, []string{"14:00-17:00"}, roles[1].Shifts)

	reg := event.NewRegistry(event.SeedEvents())
	for _, r := range roles {
		e, err := reg.Get("", r.EventID)
		require.NoError(t, err)
		assert.Equal(t, e.Title, r.EventTitle)
	}
}

func TestSignUpLimits(t *testing.T) {
	ctx := context.Background()
	svc, audit := newTestService(nil)

	role, err := svc.SignUp(ctx, "2", student, "")
	require.NoError(t, err)
	assert.Equal(t, 2, role.Volunteers)
	assert.True(t, role.Filled())
	assert.Equal(t, []string{"stu"}, role.Signups)

	_, err = svc.SignUp(ctx, "2", student, "")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	_, err = svc.SignUp(ctx, "2", organizer, "")
	assert.ErrorIs(t, err, ErrRoleFilled)

	_, err = svc.SignUp(ctx, "nope", student, "")
	assert.ErrorIs(t, err, ErrRoleNotFound)

	role, err = svc.Withdraw(ctx, "2", student, "")
	require.NoError(t, err)
	assert.Equal(t, 1, role.Volunteers)
	assert.Empty(t, role.Signups)

	_, err = svc.Withdraw(ctx, "2", student, "")
	assert.ErrorIs(t, err, ErrNotSignedUp)

	signups, _ := audit.GetAuditLogs(ctx, auditlog.AuditLogFilter{Action: auditlog.ActionVolunteerSignup})
	assert.Equal(t, int64(4), signups.Total)
	failures, _ := audit.GetAuditLogs(ctx, auditlog.AuditLogFilter{Status: auditlog.StatusFailure})
	assert.Equal(t, int64(4), failures.Total)
}

func TestSignUpConcurrent(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ac := middleware.AccessContext{UserID: "user-" + string(rune('a'+i))}
			if _, err := svc.SignUp(ctx, "1", ac, ""); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, accepted)
	roles, err := svc.ListRoles(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 5, roles[0].Volunteers)
}

func TestCreateRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	_, err := svc.CreateRole(ctx, CreateRoleRequest{EventID: "2", Name: "Usher", Shifts: []string{"09:00-11:00"}, Needed: 4}, student, "")
	assert.ErrorIs(t, err, ErrWriteAccessDenied)

	_, err = svc.CreateRole(ctx, CreateRoleRequest{EventID: "2", Name: "Usher", Shifts: []string{"11:00-09:00"}, Needed: 4}, organizer, "")
	assert.ErrorIs(t, err, ErrInvalidShift)

	_, err = svc.CreateRole(ctx, CreateRoleRequest{EventID: "99", Name: "Usher", Shifts: []string{"09:00-11:00"}, Needed: 4}, organizer, "")
	assert.ErrorIs(t, err, event.ErrEventNotFound)

	role, err := svc.CreateRole(ctx, CreateRoleRequest{EventID: "2", Name: " Usher ", Shifts: []string{"09:00 - 11:00"}, Needed: 4}, organizer, "")
	require.NoError(t, err)
	assert.Equal(t, "Usher", role.Name)
	assert.Equal(t, "Sinhgad Olumpus 2026", role.EventTitle)
	assert.Equal(t, []string{"09:00-11:00"}, role.Shifts)
	assert.Equal(t, 0, role.Volunteers)

	forEvent, err := svc.ListRoles(ctx, "2")
	require.NoError(t, err)
	require.Len(t, forEvent, 1)
	assert.Equal(t, role.ID, forEvent[0].ID)

	all, err := svc.ListRoles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSendReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies signed-up volunteers", func(t *testing.T) {
		notifier := new(mockNotifier)
		svc, _ := newTestService(notifier)
		_, err := svc.SignUp(ctx, "1", student, "")
		require.NoError(t, err)

		notifier.On("NotifyUsers", mock.Anything, []string{"stu"}, "Reminder: Registration Desk",
			mock.MatchedBy(func(msg string) bool { return strings.Contains(msg, "10:00-12:00, 12:00-14:00") }),
			"volunteer").Return(nil).Once()

		sent, err := svc.SendReminders(ctx, "1", organizer, "")
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
		notifier.AssertExpectations(t)
	})

	t.Run("no signups sends nothing", func(t *testing.T) {
		notifier := new(mockNotifier)
		svc, _ := newTestService(notifier)
		sent, err := svc.SendReminders(ctx, "2", organizer, "")
		require.NoError(t, err)
		assert.Zero(t, sent)
		notifier.AssertNotCalled(t, "NotifyUsers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivery failure", func(t *testing.T) {
		notifier := new(mockNotifier)
		svc, audit := newTestService(notifier)
		_, err := svc.SignUp(ctx, "1", student, "")
		require.NoError(t, err)
		notifier.On("NotifyUsers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		_, err = svc.SendReminders(ctx, "1", organizer, "")
		assert.Error(t, err)
		logs, _ := audit.GetAuditLogs(ctx, auditlog.AuditLogFilter{Action: auditlog.ActionVolunteerReminders, Status: auditlog.StatusFailure})
		assert.Equal(t, int64(1), logs.Total)
	})

	t.Run("students cannot send", func(t *testing.T) {
		svc, _ := newTestService(nil)
		_, err := svc.SendReminders(ctx, "1", student, "")
		assert.ErrorIs(t, err, ErrWriteAccessDenied)
	})
}

func TestHandler_StatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(nil)
	h := NewHandler(svc)

	router := func(ac middleware.AccessContext) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set("access_context", ac); c.Next() })
		r.GET("/roles", h.ListRoles)
		r.POST("/roles", h.CreateRole)
		r.POST("/roles/:id/signup", h.SignUp)
		r.DELETE("/roles/:id/signup", h.Withdraw)
		r.POST("/roles/:id/reminders", h.SendReminders)
		return r
	}

	tests := []struct {
		name   string
		ac     middleware.AccessContext
		method string
		path   string
		body   string
		status int
	}{
		{"list", organizer, http.MethodGet, "/roles?event_id=1", "", http.StatusOK},
		{"create", organizer, http.MethodPost, "/roles", `{"event_id":"3","role":"Stage crew","shifts":["16:00-18:00"],"needed":3}`, http.StatusCreated},
		{"create bad shift", organizer, http.MethodPost, "/roles", `{"event_id":"3","role":"Stage crew","shifts":["6pm"],"needed":3}`, http.StatusBadRequest},
		{"create missing fields", organizer, http.MethodPost, "/roles", `{"event_id":"3"}`, http.StatusBadRequest},
		{"create forbidden", student, http.MethodPost, "/roles", `{"event_id":"3","role":"Stage crew","shifts":["16:00-18:00"],"needed":3}`, http.StatusForbidden},
		{"signup", student, http.MethodPost, "/roles/2/signup", "", http.StatusOK},
		{"signup full", organizer, http.MethodPost, "/roles/2/signup", "", http.StatusConflict},
		{"signup missing", student, http.MethodPost, "/roles/77/signup", "", http.StatusNotFound},
		{"withdraw", student, http.MethodDelete, "/roles/2/signup", "", http.StatusOK},
		{"withdraw again", student, http.MethodDelete, "/roles/2/signup", "", http.StatusConflict},
		{"reminders", organizer, http.MethodPost, "/roles/1/reminders", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router(tt.ac).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
