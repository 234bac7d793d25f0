package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/auction-bot/auctionbot"
	"github.com/disgoorg/auction-bot/auctionbot/database"
	"github.com/disgoorg/auction-bot/auctionbot/logger"
	"github.com/disgoorg/auction-bot/auctionbot/migration"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	legacy := flag.String("legacy", "", "path to a legacy settings.json to import")
	batchSize := flag.Int("batch-size", 0, "rows per insert batch")
	flag.Parse()

	cfg, err := auctionbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(logger.NewFromConfig(os.Stdout, cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Database schema is up to date", slog.String("type", "db"))

	if *legacy == "" {
		return
	}

	migrator := migration.NewMigrator(db.BunDB(), *legacy)
	migrator.SetBatchSize(*batchSize)
	if err = migrator.MigrateAll(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Migration completed successfully!", slog.String("type", "db"))
}
