package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// AuctionGuild holds the per guild auction counter and settings.
type AuctionGuild struct {
	bun.BaseModel `bun:"table:auction_guilds,alias:ag"`

	GuildID      snowflake.ID `bun:"guild_id,pk"`
	AuctionCount int64        `bun:"auction_count,notnull,default:0"`
	UseBank      bool         `bun:"use_bank,notnull,default:false"`
	UpdatedAt    time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}
