package auction

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/auction-bot/auctionbot/config"
)

// retry runs fn up to config.MaxRetries times with exponential backoff.
func retry(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	delay := config.InitialRetryDelay
	for attempt := 1; attempt <= config.MaxRetries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == config.MaxRetries {
			break
		}
		slog.Warn("Retrying auction operation",
			slog.String("type", "auction"),
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
