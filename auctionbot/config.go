package auctionbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns a config with every optional value filled in.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo},
		DB: DBConfig{
			Host: "localhost",
			Port: 5432,
		},
		Auction: AuctionConfig{
			AntiSnipeWindow:     Duration(config.AntiSnipeWindow),
			AntiSnipeExtension:  Duration(config.AntiSnipeExtension),
			MaxBid:              config.MaxBid,
			RecoveryParallelism: config.RecoveryParallelism,
			BidCooldown:         Duration(config.BidCooldown),
			WizardTimeout:       Duration(config.WizardTimeout),
			ConfirmTimeout:      Duration(config.ConfirmTimeout),
			CloseTimeout:        Duration(config.CloseTimeout),
		},
	}
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Bot     BotConfig     `toml:"bot"`
	DB      DBConfig      `toml:"db"`
	Auction AuctionConfig `toml:"auction"`
	Spaces  SpacesConfig  `toml:"spaces"`
}

func (c Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token is required")
	}
	if c.Auction.MaxBid <= 0 {
		return fmt.Errorf("auction.max_bid must be positive")
	}
	if c.Auction.RecoveryParallelism <= 0 {
		return fmt.Errorf("auction.recovery_parallelism must be positive")
	}
	return nil
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	OwnerIDs  []snowflake.ID `toml:"owner_ids"`
	Token     string         `toml:"token"`
}

// IsOwner reports whether the user is one of the configured bot owners.
func (c BotConfig) IsOwner(userID snowflake.ID) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type AuctionConfig struct {
	AntiSnipeWindow     Duration `toml:"anti_snipe_window"`
	AntiSnipeExtension  Duration `toml:"anti_snipe_extension"`
	MaxBid              int64    `toml:"max_bid"`
	RecoveryParallelism int      `toml:"recovery_parallelism"`
	BidCooldown         Duration `toml:"bid_cooldown"`
	WizardTimeout       Duration `toml:"wizard_timeout"`
	ConfirmTimeout      Duration `toml:"confirm_timeout"`
	CloseTimeout        Duration `toml:"close_timeout"`
}

// EngineConfig converts the auction section into engine settings.
func (c AuctionConfig) EngineConfig() auction.Config {
	return auction.Config{
		AntiSnipeWindow:     c.AntiSnipeWindow.Std(),
		AntiSnipeExtension:  c.AntiSnipeExtension.Std(),
		MaxBid:              c.MaxBid,
		RecoveryParallelism: c.RecoveryParallelism,
		CloseTimeout:        c.CloseTimeout.Std(),
		CloseRetryDelay:     config.CloseRetryDelay,
	}
}

// SpacesConfig points at the S3 compatible bucket receiving settlement receipts.
// Receipts are disabled while Bucket is empty.
type SpacesConfig struct {
	Key         string `toml:"key"`
	Secret      string `toml:"secret"`
	Region      string `toml:"region"`
	Bucket      string `toml:"bucket"`
	ReceiptRoot string `toml:"receipt_root"`
}

func (c SpacesConfig) Enabled() bool {
	return c.Bucket != ""
}

// Duration decodes TOML strings such as "90s" or "5m".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
