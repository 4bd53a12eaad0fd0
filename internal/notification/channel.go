package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Channel delivers one message to a batch of recipients (emails or device tokens).
type Channel interface {
	Name() string
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// sendInBatches splits recipients into batches and reports partial failures.
func sendInBatches(ctx context.Context, ch Channel, recipients []string, subject, body string, batchSize int, logger zerolog.Logger) error {
	total := len(recipients)
	if total == 0 {
		return ErrNoRecipients
	}
	var lastErr error
	sent, failed := 0, 0

	for i := 0; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}
		batch := recipients[i:end]
		if err := ch.Send(ctx, batch, subject, body); err != nil {
			logger.Warn().Err(err).Str("channel", ch.Name()).Int("batch_size", len(batch)).Msg("batch failed")
			lastErr = err
			failed += len(batch)
			continue
		}
		sent += len(batch)
	}

	logger.Debug().Str("channel", ch.Name()).Int("sent", sent).Int("failed", failed).Msg("send complete")
	switch {
	case failed == 0:
		return nil
	case sent > 0:
		return fmt.Errorf("partial success: %d/%d sent via %s: %w", sent, total, ch.Name(), lastErr)
	default:
		return fmt.Errorf("all %s batches failed: %w", ch.Name(), lastErr)
	}
}
