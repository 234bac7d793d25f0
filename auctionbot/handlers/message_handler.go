package handlers

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
)

// DisplayWatcher reacts to a deleted auction display.
type DisplayWatcher interface {
	OnDisplayMessageDeleted(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (bool, error)
}

// MessageHandler force closes auctions whose pinned display message is deleted.
func MessageHandler(w DisplayWatcher) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageDelete) {
		handleDisplayDeleted(w, e.GuildID, e.MessageID)
	})
}

func handleDisplayDeleted(w DisplayWatcher, guildID snowflake.ID, messageID snowflake.ID) {
	ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
	defer cancel()

	removed, err := w.OnDisplayMessageDeleted(ctx, guildID, messageID)
	if err != nil {
		slog.Error("Failed to remove auction after display deletion",
			slog.String("type", "auction"),
			slog.String("guild_id", guildID.String()),
			slog.String("message_id", messageID.String()),
			slog.Any("error", err))
		return
	}
	if removed {
		slog.Info("Auction removed because its display was deleted",
			slog.String("type", "auction"),
			slog.String("guild_id", guildID.String()),
			slog.String("message_id", messageID.String()))
	}
}
