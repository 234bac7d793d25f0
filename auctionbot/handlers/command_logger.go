package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
)

// SlowThreshold is the duration after which a finished interaction is logged as slow.
const SlowThreshold = 2 * time.Second

// WrapWithLogging wraps a command handler with logging functionality
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return runLogged("cmd", "Command", name, e.User(), e.GuildID(), e.ChannelID(), func() error {
			return h(e)
		})
	}
}

// WrapComponentWithLogging wraps a component handler with logging functionality
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return runLogged("component", "Component interaction", name, e.User(), e.GuildID(), e.ChannelID(), func() error {
			return h(e)
		})
	}
}

// WrapModalWithLogging wraps a modal submit handler with logging functionality
func WrapModalWithLogging(name string, h handler.ModalHandler) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		return runLogged("component", "Modal submit", name, e.User(), e.GuildID(), e.ChannelID(), func() error {
			return h(e)
		})
	}
}

func runLogged(kind string, label string, name string, user discord.User, guildID *snowflake.ID, channelID snowflake.ID, run func() error) error {
	start := time.Now()

	guild := "dm"
	if guildID != nil {
		guild = guildID.String()
	}

	slog.Info(label+" started",
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_id", user.ID.String()),
		slog.String("user_name", user.Username),
		slog.String("guild_id", guild),
		slog.String("channel_id", channelID.String()),
	)

	done := make(chan error, 1)
	go func() {
		done <- run()
	}()

	select {
	case err := <-done:
		duration := time.Since(start)

		attrs := []any{
			slog.String("type", kind),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()),
			slog.String("user_name", user.Username),
			slog.Duration("took", duration),
		}

		if err != nil {
			slog.Error(label+" failed", append(attrs,
				slog.Any("error", err),
				slog.String("status", "failed"),
			)...)
		} else if duration > SlowThreshold {
			slog.Warn(label+" executed slowly", append(attrs,
				slog.String("status", "slow"),
			)...)
		} else {
			slog.Info(label+" completed", append(attrs,
				slog.String("status", "success"),
			)...)
		}
		return err

	case <-time.After(config.CommandExecutionTimeout):
		slog.Error(label+" timed out",
			slog.String("type", kind),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()),
			slog.String("user_name", user.Username),
			slog.String("status", "timeout"),
			slog.Duration("timeout", config.CommandExecutionTimeout),
		)
		return fmt.Errorf("%s %s timed out after %s", kind, name, config.CommandExecutionTimeout)
	}
}
