package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease/campus-backend/internal/auth"
)

type recordingChannel struct {
	name    string
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(_ context.Context, recipients []string, _, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, append([]string{}, recipients...))
	return c.err
}

func seedUsers(t *testing.T) auth.Repository {
	t.Helper()
	users := auth.NewMemoryRepository()
	for _, u := range []auth.User{
		{ID: "stu-1", Email: "asha@campus.edu", Role: auth.RoleStudent},
		{ID: "stu-2", Email: "ravi@campus.edu", Role: auth.RoleStudent},
		{ID: "org-1", Email: "org@campus.edu", Role: auth.RoleOrganizer},
	} {
		u := u
		require.NoError(t, users.Save(context.Background(), &u))
	}
	return users
}

func TestRedisStream_Publish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	stream := NewRedisStream(db)
	ctx := context.Background()

	mock.ExpectPublish("notifications:user:stu-1", `{"title":"hi"}`).SetVal(1)
	require.NoError(t, stream.Publish(ctx, "stu-1", []byte(`{"title":"hi"}`)))

	mock.ExpectPublish("notifications:user:stu-1", `{}`).SetErr(errors.New("connection refused"))
	assert.Error(t, stream.Publish(ctx, "stu-1", []byte(`{}`)))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalStream(t *testing.T) {
	stream := NewLocalStream()
	ctx := context.Background()

	ch, cancel, err := stream.Subscribe(ctx, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stream.subscribers("stu-1"))

	require.NoError(t, stream.Publish(ctx, "stu-1", []byte("one")))
	require.NoError(t, stream.Publish(ctx, "stu-2", []byte("other")))
	assert.Equal(t, []byte("one"), <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, stream.subscribers("stu-1"))
	_, open := <-ch
	assert.False(t, open)
}

func TestService_InApp(t *testing.T) {
	ctx := context.Background()
	stream := NewLocalStream()
	svc := NewService(NewMemoryRepository(), nil, Options{Stream: stream}, zerolog.Nop())

	ch, cancel, err := svc.Subscribe(ctx, "stu-1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, svc.CreateInAppNotification(ctx, "stu-1", "First", "one", CategorySystem))
	require.NoError(t, svc.CreateInAppNotification(ctx, "stu-1", "Second", "two", CategoryEvent))
	require.NoError(t, svc.CreateInAppNotification(ctx, "stu-2", "Elsewhere", "x", CategoryEvent))

	assert.Contains(t, string(<-ch), `"title":"First"`)
	assert.Contains(t, string(<-ch), `"title":"Second"`)

	items, err := svc.ListInAppByUser(ctx, "stu-1", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Title)
	assert.False(t, items[0].IsRead)

	require.NoError(t, svc.MarkInAppAsRead(ctx, items[0].ID, "stu-1"))
	assert.ErrorIs(t, svc.MarkInAppAsRead(ctx, items[0].ID, "stu-2"), ErrNotFound)

	items, _ = svc.ListInAppByUser(ctx, "stu-1", 1)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsRead)
}

func TestService_CreateInAppForRoles(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), seedUsers(t), Options{}, zerolog.Nop())

	require.NoError(t, svc.CreateInAppForRoles(ctx, []string{auth.RoleStudent}, "New event", "msg", CategoryEvent))

	for _, uid := range []string{"stu-1", "stu-2"} {
		items, err := svc.ListInAppByUser(ctx, uid, 10)
		require.NoError(t, err)
		assert.Len(t, items, 1, uid)
	}
	items, _ := svc.ListInAppByUser(ctx, "org-1", 10)
	assert.Empty(t, items)
}

func TestService_NotifyUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	push := &recordingChannel{name: "push"}
	email := &recordingChannel{name: "email"}
	svc := NewService(repo, seedUsers(t), Options{Push: push, Email: email}, zerolog.Nop())

	require.NoError(t, svc.RegisterDeviceToken(ctx, "stu-1", RegisterDeviceRequest{DeviceToken: " tok-a ", DeviceType: "android"}))
	require.NoError(t, svc.RegisterDeviceToken(ctx, "stu-2", RegisterDeviceRequest{DeviceToken: "tok-b"}))

	require.NoError(t, svc.NotifyUsers(ctx, []string{"stu-1", "stu-2", "ghost"}, "Reminder", "body", CategoryVolunteer))

	assert.Equal(t, [][]string{{"tok-a", "tok-b"}}, push.batches)
	assert.Equal(t, [][]string{{"asha@campus.edu", "ravi@campus.edu"}}, email.batches)

	items, _ := svc.ListInAppByUser(ctx, "ghost", 10)
	assert.Len(t, items, 1)

	assert.ErrorIs(t, svc.NotifyUsers(ctx, nil, "x", "y", CategorySystem), ErrNoRecipients)

	require.NoError(t, svc.RemoveDeviceToken(ctx, "stu-1", "tok-a"))
	assert.ErrorIs(t, svc.RemoveDeviceToken(ctx, "stu-1", "tok-a"), ErrNotFound)
}

func TestService_NotifyUsersReportsChannelFailure(t *testing.T) {
	ctx := context.Background()
	email := &recordingChannel{name: "email", err: errors.New("smtp down")}
	svc := NewService(NewMemoryRepository(), seedUsers(t), Options{Email: email}, zerolog.Nop())

	err := svc.NotifyUsers(ctx, []string{"stu-1"}, "Reminder", "body", CategoryVolunteer)
	assert.ErrorContains(t, err, "smtp down")

	// in-app delivery still happened
	items, _ := svc.ListInAppByUser(ctx, "stu-1", 10)
	assert.Len(t, items, 1)
}

func TestSendInBatches(t *testing.T) {
	ctx := context.Background()
	recipients := []string{"a", "b", "c", "d", "e"}

	ch := &recordingChannel{name: "email"}
	require.NoError(t, sendInBatches(ctx, ch, recipients, "s", "b", 2, zerolog.Nop()))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, ch.batches)

	failing := &recordingChannel{name: "email", err: errors.New("boom")}
	err := sendInBatches(ctx, failing, recipients, "s", "b", 2, zerolog.Nop())
	assert.ErrorContains(t, err, "all email batches failed")

	assert.ErrorIs(t, sendInBatches(ctx, ch, nil, "s", "b", 2, zerolog.Nop()), ErrNoRecipients)
}

type fakeMessaging struct {
	single    []*messaging.Message
	multicast []*messaging.MulticastMessage
	failures  int
}

func (f *fakeMessaging) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.single = append(f.single, m)
	return "projects/x/messages/1", nil
}

func (f *fakeMessaging) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.multicast = append(f.multicast, m)
	return &messaging.BatchResponse{SuccessCount: len(m.Tokens) - f.failures, FailureCount: f.failures}, nil
}

func TestFCMChannel(t *testing.T) {
	ctx := context.Background()

	client := &fakeMessaging{}
	ch := NewFCMChannel(client, zerolog.Nop())
	require.NoError(t, ch.Send(ctx, []string{"tok"}, "Title", "Body"))
	require.Len(t, client.single, 1)
	assert.Equal(t, "tok", client.single[0].Token)
	assert.Equal(t, "Title", client.single[0].Notification.Title)

	tokens := make([]string, 501)
	for i := range tokens {
		tokens[i] = "t"
	}
	require.NoError(t, ch.Send(ctx, tokens, "Title", "Body"))
	require.Len(t, client.multicast, 2)
	assert.Len(t, client.multicast[0].Tokens, 500)
	assert.Len(t, client.multicast[1].Tokens, 1)

	client.failures = 1
	assert.Error(t, ch.Send(ctx, []string{"a", "b"}, "Title", "Body"))

	var unconfigured *FCMChannel
	assert.ErrorIs(t, unconfigured.Send(ctx, []string{"a"}, "t", "b"), ErrNotConfigured)
}

func TestEmailSender(t *testing.T) {
	sender := NewEmailSender("smtp.campus.edu", "587", "bot", "secret", "EventEase Team", "noreply@campus.edu", zerolog.Nop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, sender.Send(context.Background(), []string{"a@campus.edu", "b@campus.edu"}, "Shift <reminder>", "See you at 10:00"))
	assert.Equal(t, "smtp.campus.edu:587", gotAddr)
	assert.Equal(t, "noreply@campus.edu", gotFrom)
	assert.Equal(t, []string{"a@campus.edu", "b@campus.edu"}, gotTo)

	msg := string(gotMsg)
	assert.True(t, strings.HasPrefix(msg, "From: EventEase Team <noreply@campus.edu>\r\n"))
	assert.Contains(t, msg, "To: a@campus.edu, b@campus.edu\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "<h2>Shift &lt;reminder&gt;</h2>")

	sender.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 try later") }
	assert.ErrorContains(t, sender.Send(context.Background(), []string{"a@campus.edu"}, "s", "b"), "421")

	assert.ErrorIs(t, sender.Send(context.Background(), nil, "s", "b"), ErrNoRecipients)
}
