package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type Auctioneer struct {
	bun.BaseModel `bun:"table:auctioneers,alias:au"`

	GuildID   snowflake.ID `bun:"guild_id,pk"`
	UserID    snowflake.ID `bun:"user_id,pk"`
	GrantedAt time.Time    `bun:"granted_at,notnull,default:current_timestamp"`
}
