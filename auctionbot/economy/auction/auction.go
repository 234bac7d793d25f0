package auction

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// Key identifies an auction across all guilds.
type Key struct {
	GuildID   snowflake.ID
	AuctionID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%d", k.GuildID, k.AuctionID)
}

func KeyOf(a *models.Auction) Key {
	return Key{GuildID: a.GuildID, AuctionID: a.AuctionID}
}

// MessageHandle locates the pinned display message of an auction.
type MessageHandle struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

type CloseReason int

const (
	ReasonExpired CloseReason = iota
	ReasonQuickSold
	ReasonRemoved
	ReasonMessageDeleted
)

func (r CloseReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonQuickSold:
		return "quick_sold"
	case ReasonRemoved:
		return "removed"
	case ReasonMessageDeleted:
		return "message_deleted"
	}
	return "unknown"
}

// Forced reports whether the close skips normal settlement.
func (r CloseReason) Forced() bool {
	return r == ReasonRemoved || r == ReasonMessageDeleted
}

type CreateParams struct {
	GuildID     snowflake.ID
	ChannelID   snowflake.ID
	HostID      snowflake.ID
	HostName    string
	Name        string
	Description string
	TimePeriod  time.Duration
	QuickSold   *int64
	MinBid      int64
}

func (p CreateParams) Validate(maxBid int64) error {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidParams)
	case utf8.RuneCountInString(name) > config.MaxAuctionNameLength:
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidParams, config.MaxAuctionNameLength)
	case utf8.RuneCountInString(p.Description) > config.MaxAuctionDescriptionLength:
		return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidParams, config.MaxAuctionDescriptionLength)
	case p.TimePeriod < time.Second:
		return fmt.Errorf("%w: time period must be at least one second", ErrInvalidParams)
	case p.MinBid <= 0:
		return fmt.Errorf("%w: minimum bid must be greater than zero", ErrInvalidParams)
	case p.MinBid > maxBid:
		return fmt.Errorf("%w: minimum bid is above %d", ErrInvalidParams, maxBid)
	case p.QuickSold != nil && *p.QuickSold <= 0:
		return fmt.Errorf("%w: quick sell price must be greater than zero", ErrInvalidParams)
	case p.QuickSold != nil && *p.QuickSold < p.MinBid:
		return fmt.Errorf("%w: quick sell price is below the minimum bid", ErrInvalidParams)
	}
	return nil
}

// BidOutcome describes an accepted bid.
type BidOutcome struct {
	Auction        *models.Auction
	Amount         int64
	PreviousBid    *int64
	PreviousBidder *snowflake.ID
	Extended       bool
	Sold           bool
}

// Receipt is the archived summary of a settled auction.
type Receipt struct {
	GuildID   snowflake.ID  `json:"guild_id"`
	AuctionID int64         `json:"auction_id"`
	Name      string        `json:"name"`
	HostID    snowflake.ID  `json:"host_id"`
	WinnerID  *snowflake.ID `json:"winner_id,omitempty"`
	Amount    *int64        `json:"amount,omitempty"`
	Reason    string        `json:"reason"`
	UsedBank  bool          `json:"used_bank"`
	ClosedAt  time.Time     `json:"closed_at"`
}

// Config tunes the engine. Zero values fall back to the package defaults.
type Config struct {
	AntiSnipeWindow     time.Duration
	AntiSnipeExtension  time.Duration
	MaxBid              int64
	RecoveryParallelism int
	CloseTimeout        time.Duration
	CloseRetryDelay     time.Duration
}

func DefaultConfig() Config {
	return Config{
		AntiSnipeWindow:     config.AntiSnipeWindow,
		AntiSnipeExtension:  config.AntiSnipeExtension,
		MaxBid:              config.MaxBid,
		RecoveryParallelism: config.RecoveryParallelism,
		CloseTimeout:        config.CloseTimeout,
		CloseRetryDelay:     config.CloseRetryDelay,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AntiSnipeWindow <= 0 {
		c.AntiSnipeWindow = d.AntiSnipeWindow
	}
	if c.AntiSnipeExtension <= 0 {
		c.AntiSnipeExtension = d.AntiSnipeExtension
	}
	if c.MaxBid <= 0 {
		c.MaxBid = d.MaxBid
	}
	if c.RecoveryParallelism <= 0 {
		c.RecoveryParallelism = d.RecoveryParallelism
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = d.CloseTimeout
	}
	if c.CloseRetryDelay <= 0 {
		c.CloseRetryDelay = d.CloseRetryDelay
	}
	return c
}
