package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

// FCM allows max 500 tokens per multicast.
const fcmBatchSize = 500

// MessagingClient is the subset of *messaging.Client the push channel uses.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMChannel implements Channel for Firebase Cloud Messaging. Recipients are device tokens.
type FCMChannel struct {
	client MessagingClient
	logger zerolog.Logger
}

// NewFCMChannel wraps an initialized messaging client, usually *messaging.Client.
func NewFCMChannel(client MessagingClient, logger zerolog.Logger) *FCMChannel {
	return &FCMChannel{client: client, logger: logger.With().Str("channel", "push").Logger()}
}

func (f *FCMChannel) Name() string { return "push" }

func (f *FCMChannel) Send(ctx context.Context, recipients []string, subject, body string) error {
	if f == nil || f.client == nil {
		return ErrNotConfigured
	}
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	if len(recipients) == 1 {
		msg := &messaging.Message{
			Token:        recipients[0],
			Notification: &messaging.Notification{Title: subject, Body: body},
			Android:      androidConfig(),
			APNS:         apnsConfig(),
			Webpush:      webpushConfig(subject, body),
		}
		id, err := f.client.Send(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to send FCM message: %w", err)
		}
		f.logger.Debug().Str("message_id", id).Msg("push sent")
		return nil
	}
	return f.sendMulticast(ctx, recipients, subject, body)
}

func (f *FCMChannel) sendMulticast(ctx context.Context, tokens []string, title, body string) error {
	failed := 0
	for i := 0; i < len(tokens); i += fcmBatchSize {
		end := i + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[i:end]

		resp, err := f.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: &messaging.Notification{Title: title, Body: body},
			Android:      androidConfig(),
			APNS:         apnsConfig(),
			Webpush:      webpushConfig(title, body),
		})
		if err != nil {
			f.logger.Warn().Err(err).Int("batch_size", len(batch)).Msg("multicast batch failed")
			failed += len(batch)
			continue
		}
		failed += resp.FailureCount
		f.logger.Debug().Int("success", resp.SuccessCount).Int("failure", resp.FailureCount).Msg("multicast batch sent")
	}

	if failed > 0 {
		return fmt.Errorf("failed to send to %d/%d tokens", failed, len(tokens))
	}
	return nil
}

func androidConfig() *messaging.AndroidConfig {
	return &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID:    "campus_events",
			Priority:     messaging.PriorityHigh,
			DefaultSound: true,
		},
	}
}

func apnsConfig() *messaging.APNSConfig {
	badge := 1
	return &messaging.APNSConfig{
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{Sound: "default", Badge: &badge},
		},
	}
}

func webpushConfig(title, body string) *messaging.WebpushConfig {
	return &messaging.WebpushConfig{
		Notification: &messaging.WebpushNotification{
			Title: title,
			Body:  body,
			Icon:  "/icon-192x192.png",
		},
	}
}
