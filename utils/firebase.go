package utils

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/eventease/campus-backend/config"
)

// NewMessagingClient initializes the Firebase Admin SDK and returns its FCM client.
func NewMessagingClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*messaging.Client, error) {
	if cfg.FCMCredentialsPath == "" {
		return nil, fmt.Errorf("FCM_CREDENTIALS_PATH not set")
	}
	if _, err := os.Stat(cfg.FCMCredentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file not found: %w", err)
	}

	var conf *firebase.Config
	if cfg.FCMProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FCMProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(cfg.FCMCredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app initialization failed: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("FCM client initialization failed: %w", err)
	}

	logger.Info().Str("project_id", cfg.FCMProjectID).Msg("✅ Firebase Cloud Messaging initialized")
	return client, nil
}
