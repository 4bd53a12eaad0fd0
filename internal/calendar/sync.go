package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

var ErrMissingToken = errors.New("calendar access token is required")

// SyncResult identifies the event created in the remote calendar.
type SyncResult struct {
	RemoteID string `json:"remote_id"`
	HTMLLink string `json:"html_link"`
}

// Syncer pushes an entry into a user's calendar with their access token.
type Syncer interface {
	Sync(ctx context.Context, e Entry, accessToken string) (*SyncResult, error)
}

// GoogleSyncer inserts events through the Google Calendar API.
type GoogleSyncer struct {
	calendarID string
	opts       []option.ClientOption
}

// NewGoogleSyncer accepts extra client options, e.g. option.WithEndpoint.
func NewGoogleSyncer(opts ...option.ClientOption) *GoogleSyncer {
	return &GoogleSyncer{calendarID: primaryCalendar, opts: opts}
}

func (g *GoogleSyncer) Sync(ctx context.Context, e Entry, accessToken string) (*SyncResult, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, g.opts...)

	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	created, err := service.Events.Insert(g.calendarID, &gcal.Event{
		Summary:     e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       &gcal.EventDateTime{DateTime: e.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: e.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return &SyncResult{RemoteID: created.Id, HTMLLink: created.HtmlLink}, nil
}
