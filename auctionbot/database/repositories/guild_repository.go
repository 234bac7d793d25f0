package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

// GuildRepository holds per guild auction settings.
type GuildRepository struct {
	*BaseRepository
}

var _ auction.Settings = (*GuildRepository)(nil)

func NewGuildRepository(db *bun.DB) *GuildRepository {
	return &GuildRepository{BaseRepository: NewBaseRepository(db)}
}

// UseBank reports whether bids in the guild move currency. Unknown guilds default to false.
func (r *GuildRepository) UseBank(ctx context.Context, guildID snowflake.ID) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var useBank bool
	err := r.db.NewSelect().
		Model((*models.AuctionGuild)(nil)).
		Column("use_bank").
		Where("guild_id = ?", guildID).
		Scan(ctx, &useBank)
	if err != nil {
		err = r.HandleError("use bank", "auction_guild", guildID, err)
		if _, ok := err.(*NotFoundError); ok {
			return false, nil
		}
		return false, err
	}
	return useBank, nil
}

func (r *GuildRepository) ToggleBank(ctx context.Context, guildID snowflake.ID) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	guild := &models.AuctionGuild{
		GuildID:   guildID,
		UseBank:   true,
		UpdatedAt: time.Now(),
	}
	var useBank bool
	err := r.db.NewInsert().
		Model(guild).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("use_bank = NOT ag.use_bank").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("use_bank").
		Scan(ctx, &useBank)
	if err != nil {
		return false, r.HandleError("toggle bank", "auction_guild", guildID, err)
	}
	return useBank, nil
}
