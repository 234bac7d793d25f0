package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/auction-bot/auctionbot"
	"github.com/disgoorg/auction-bot/auctionbot/commands/auctions"
	"github.com/disgoorg/auction-bot/auctionbot/database"
	"github.com/disgoorg/auction-bot/auctionbot/database/repositories"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	"github.com/disgoorg/auction-bot/auctionbot/handlers"
	"github.com/disgoorg/auction-bot/auctionbot/logger"
	"github.com/disgoorg/auction-bot/auctionbot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := auctionbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewFromConfig(os.Stdout, cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource)))
	slog.Info("Starting auction bot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Database:     cfg.DB.Database,
		PoolSize:     cfg.DB.PoolSize,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxLifetime:  cfg.DB.MaxLifetime,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully", slog.String("type", "db"))

	b := auctionbot.New(*cfg, version, commit)
	b.DB = db

	// The platform gets its client in SetupBot.
	b.Platform = auction.NewDiscordPlatform(nil)
	b.Engine = auction.NewEngine(
		repositories.NewAuctionRepository(db.BunDB()),
		repositories.NewGuildRepository(db.BunDB()),
		repositories.NewAuctioneerRepository(db.BunDB()),
		repositories.NewBankRepository(db.BunDB()),
		b.Platform,
		cfg.Auction.EngineConfig(),
	)

	if cfg.Spaces.Enabled() {
		receipts, err := services.NewReceiptService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ReceiptRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize receipt archive", slog.Any("error", err))
			os.Exit(-1)
		}
		b.Receipts = receipts
		b.Engine.SetReceiptSink(receipts)
		slog.Info("Receipt archive enabled",
			slog.String("type", "sys"),
			slog.String("bucket", cfg.Spaces.Bucket))
	}

	auctionHandler, err := auctions.NewAuctionHandler(b.Engine, b.Paginator, auctions.Options{
		OwnerIDs:       cfg.Bot.OwnerIDs,
		BidCooldown:    cfg.Auction.BidCooldown.Std(),
		WizardTimeout:  cfg.Auction.WizardTimeout.Std(),
		ConfirmTimeout: cfg.Auction.ConfirmTimeout.Std(),
	})
	if err != nil {
		slog.Error("Failed to create auction handler", slog.Any("error", err))
		os.Exit(-1)
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	auctionHandler.StartCleanupRoutine(cleanupCtx)

	h := handler.New()
	auctionHandler.Register(h)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b.Engine)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()
	defer b.Engine.Shutdown()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, auctions.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))
}
