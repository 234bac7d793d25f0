package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

// AuctioneerRepository tracks members allowed to host auctions.
type AuctioneerRepository struct {
	*BaseRepository
}

var _ auction.Roster = (*AuctioneerRepository)(nil)

func NewAuctioneerRepository(db *bun.DB) *AuctioneerRepository {
	return &AuctioneerRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *AuctioneerRepository) IsAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.Auctioneer)(nil)).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Exists(ctx)
	if err != nil {
		return false, r.HandleError("is auctioneer", "auctioneer", userID, err)
	}
	return exists, nil
}

func (r *AuctioneerRepository) SetAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, auctioneer bool) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if !auctioneer {
		_, err := r.db.NewDelete().
			Model((*models.Auctioneer)(nil)).
			Where("guild_id = ? AND user_id = ?", guildID, userID).
			Exec(ctx)
		return r.HandleError("revoke auctioneer", "auctioneer", userID, err)
	}

	_, err := r.db.NewInsert().
		Model(&models.Auctioneer{GuildID: guildID, UserID: userID, GrantedAt: time.Now()}).
		On("CONFLICT (guild_id, user_id) DO NOTHING").
		Exec(ctx)
	return r.HandleError("grant auctioneer", "auctioneer", userID, err)
}

// List returns the auctioneers of a guild.
func (r *AuctioneerRepository) List(ctx context.Context, guildID snowflake.ID) ([]*models.Auctioneer, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var out []*models.Auctioneer
	err := r.db.NewSelect().
		Model(&out).
		Where("guild_id = ?", guildID).
		Order("granted_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list auctioneers", "auctioneer", guildID, err)
	}
	return out, nil
}
