package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/eventease/campus-backend/internal/auth"
	"github.com/eventease/campus-backend/internal/event"
)

const publishTimeout = 5 * time.Second

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Bridge turns registry changes into notifications. With a writer the
// changes travel through Kafka and Consume dispatches them; without one
// they are dispatched in-process.
type Bridge struct {
	svc    Service
	writer MessageWriter
	logger zerolog.Logger
}

func NewBridge(svc Service, writer MessageWriter, logger zerolog.Logger) *Bridge {
	return &Bridge{svc: svc, writer: writer, logger: logger.With().Str("component", "notification_bridge").Logger()}
}

// Attach subscribes the bridge to reg and returns the unsubscribe func.
func (b *Bridge) Attach(reg *event.Registry) func() {
	return reg.Subscribe(b.Handle)
}

func (b *Bridge) Handle(change event.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if b.writer == nil {
		if err := b.Dispatch(ctx, change); err != nil {
			b.logger.Warn().Err(err).Str("kind", string(change.Kind)).Msg("dispatch failed")
		}
		return
	}

	value, err := json.Marshal(change)
	if err != nil {
		b.logger.Error().Err(err).Msg("encoding domain event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(change.Event.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(change.Kind)},
		},
		Time: change.At,
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		b.logger.Error().Err(err).Str("kind", string(change.Kind)).Str("event_id", change.Event.ID).Msg("publishing domain event")
	}
}

// Consume reads domain events until ctx is cancelled.
func (b *Bridge) Consume(ctx context.Context, reader MessageReader) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading domain event: %w", err)
		}

		change, err := DecodeChange(msg.Value)
		if err != nil {
			b.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed domain event")
		} else if err := b.Dispatch(ctx, change); err != nil {
			b.logger.Warn().Err(err).Str("kind", string(change.Kind)).Msg("dispatch failed")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			b.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}

func DecodeChange(data []byte) (event.Change, error) {
	var change event.Change
	if err := json.Unmarshal(data, &change); err != nil {
		return event.Change{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if change.Kind == "" || change.Event.ID == "" {
		return event.Change{}, ErrInvalidPayload
	}
	return change, nil
}

// Dispatch fans a change out as in-app notifications.
func (b *Bridge) Dispatch(ctx context.Context, change event.Change) error {
	e := change.Event
	switch change.Kind {
	case event.ChangeCreated:
		return b.svc.CreateInAppForRoles(ctx, []string{auth.RoleStudent},
			"New event: "+e.Title,
			fmt.Sprintf("%s on %s at %s. RSVP now!", e.Title, e.Date, e.Location),
			CategoryEvent)
	case event.ChangeRSVPAdded:
		if change.UserID == "" {
			return nil
		}
		return b.svc.CreateInAppNotification(ctx, change.UserID,
			"RSVP confirmed",
			fmt.Sprintf("You're going to %s on %s.", e.Title, e.Date),
			CategoryEvent)
	default:
		return nil
	}
}
