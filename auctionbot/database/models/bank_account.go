package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// BankAccount is a member's currency balance in one guild.
type BankAccount struct {
	bun.BaseModel `bun:"table:bank_accounts,alias:ba"`

	GuildID   snowflake.ID `bun:"guild_id,pk"`
	UserID    snowflake.ID `bun:"user_id,pk"`
	Balance   int64        `bun:"balance,notnull,default:0"`
	UpdatedAt time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}
