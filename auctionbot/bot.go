package auctionbot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	"github.com/disgoorg/auction-bot/auctionbot/logger"
	"github.com/disgoorg/auction-bot/auctionbot/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	DB        *database.DB
	Engine    *auction.Engine
	Platform  *auction.DiscordPlatform
	Receipts  *services.ReceiptService

	recoverOnce sync.Once
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagChannels)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	if b.Platform != nil {
		b.Platform.SetClient(client)
	}
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Auction bot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("bids"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}

	// Ready fires again after every reconnect; timers survive those.
	b.recoverOnce.Do(func() {
		go b.recoverAuctions()
	})
}

func (b *Bot) recoverAuctions() {
	if b.Engine == nil {
		return
	}

	delay := config.RecoveryRetryDelay
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.RecoveryTimeout)
		report, err := b.Engine.Recover(ctx, nil)
		cancel()
		if err == nil {
			logger.LogSystem("Auction recovery complete",
				slog.Int("guilds", report.Guilds),
				slog.Int("restored", report.Restored),
				slog.Int("dropped", report.Dropped),
				slog.Int("finished", report.Finished),
				slog.Duration("took", report.Took))
			return
		}

		logger.LogError("Auction recovery failed, commands stay disabled", err,
			slog.Int("attempt", attempt),
			slog.Int("restored", report.Restored),
			slog.Int("dropped", report.Dropped),
			slog.Duration("retry_in", delay))
		time.Sleep(delay)
		delay = min(delay*2, config.MaxRecoveryRetryDelay)
	}
}
