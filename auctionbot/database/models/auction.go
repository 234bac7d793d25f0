package models

import (
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type AuctionState string

const (
	AuctionStateDraft     AuctionState = "draft"
	AuctionStateActive    AuctionState = "active"
	AuctionStateClosed    AuctionState = "closed"
	AuctionStateCancelled AuctionState = "cancelled"
)

// Auction is one listing of a guild. It is keyed by (guild_id, auction_id);
// auction ids come from the guild counter and are never reused.
type Auction struct {
	bun.BaseModel `bun:"table:auctions,alias:a"`

	GuildID     snowflake.ID `bun:"guild_id,pk"`
	AuctionID   int64        `bun:"auction_id,pk"`
	HostID      snowflake.ID `bun:"host_id,notnull"`
	HostName    string       `bun:"host_name,notnull"`
	State       AuctionState `bun:"state,notnull"`
	Name        string       `bun:"name,notnull"`
	Description string       `bun:"description,notnull"`
	ChannelID   snowflake.ID `bun:"channel_id,notnull"`
	ThreadID    snowflake.ID `bun:"thread_id,notnull"`
	MessageID   snowflake.ID `bun:"message_id,notnull"`
	MinBid      int64        `bun:"min_bid,notnull"`

	QuickSold     *int64        `bun:"quick_sold"`
	CurrentBid    *int64        `bun:"current_bid"`
	CurrentBidder *snowflake.ID `bun:"current_bidder"`

	EndTime   time.Time `bun:"end_time,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Title renders the display heading, e.g. "#12 - Golden Sword".
func (a *Auction) Title() string {
	return fmt.Sprintf("#%d - %s", a.AuctionID, a.Name)
}

// HasBid reports whether a bid and its bidder are both set.
func (a *Auction) HasBid() bool {
	return a.CurrentBid != nil && a.CurrentBidder != nil
}

// Clone returns a deep copy so callers can mutate the result freely.
func (a *Auction) Clone() *Auction {
	if a == nil {
		return nil
	}
	c := *a
	if a.QuickSold != nil {
		v := *a.QuickSold
		c.QuickSold = &v
	}
	if a.CurrentBid != nil {
		v := *a.CurrentBid
		c.CurrentBid = &v
	}
	if a.CurrentBidder != nil {
		v := *a.CurrentBidder
		c.CurrentBidder = &v
	}
	return &c
}
