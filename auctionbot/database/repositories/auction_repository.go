package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

// AuctionRepository stores auction records and allocates per guild ids.
type AuctionRepository struct {
	*BaseRepository
}

var _ auction.Store = (*AuctionRepository)(nil)

func NewAuctionRepository(db *bun.DB) *AuctionRepository {
	return &AuctionRepository{BaseRepository: NewBaseRepository(db)}
}

// NextAuctionID bumps the guild counter and returns the new value.
func (r *AuctionRepository) NextAuctionID(ctx context.Context, guildID snowflake.ID) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	guild := &models.AuctionGuild{
		GuildID:      guildID,
		AuctionCount: 1,
		UpdatedAt:    time.Now(),
	}
	var next int64
	err := r.db.NewInsert().
		Model(guild).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("auction_count = ag.auction_count + 1").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("auction_count").
		Scan(ctx, &next)
	if err != nil {
		return 0, r.HandleError("next auction id", "auction_guild", guildID, err)
	}
	return next, nil
}

func (r *AuctionRepository) ReleaseAuctionID(ctx context.Context, guildID snowflake.ID, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewUpdate().
		Model((*models.AuctionGuild)(nil)).
		Set("auction_count = auction_count - 1").
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ?", guildID).
		Where("auction_count = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleError("release auction id", "auction_guild", guildID, err)
	}
	return nil
}

func (r *AuctionRepository) Create(ctx context.Context, a *models.Auction) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(a).Exec(ctx); err != nil {
		return r.HandleError("create", "auction", a.AuctionID, err)
	}
	return nil
}

func (r *AuctionRepository) Get(ctx context.Context, key auction.Key) (*models.Auction, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	a := new(models.Auction)
	err := r.db.NewSelect().
		Model(a).
		Where("guild_id = ? AND auction_id = ?", key.GuildID, key.AuctionID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "auction", key, err)
	}
	return a, nil
}

func (r *AuctionRepository) GetByThread(ctx context.Context, guildID snowflake.ID, threadID snowflake.ID) (*models.Auction, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	a := new(models.Auction)
	err := r.db.NewSelect().
		Model(a).
		Where("guild_id = ? AND thread_id = ?", guildID, threadID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get by thread", "auction", threadID, err)
	}
	return a, nil
}

func (r *AuctionRepository) Update(ctx context.Context, a *models.Auction) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	a.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().
		Model(a).
		Column("state", "current_bid", "current_bidder", "end_time", "message_id", "thread_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "auction", auction.KeyOf(a), err)
	}
	return requireAffected(res, "auction", auction.KeyOf(a))
}

func (r *AuctionRepository) Delete(ctx context.Context, key auction.Key) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Auction)(nil)).
		Where("guild_id = ? AND auction_id = ?", key.GuildID, key.AuctionID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", "auction", key, err)
	}
	return requireAffected(res, "auction", key)
}

func (r *AuctionRepository) List(ctx context.Context, guildID snowflake.ID) ([]*models.Auction, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var auctions []*models.Auction
	err := r.db.NewSelect().
		Model(&auctions).
		Where("guild_id = ?", guildID).
		Order("auction_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "auction", guildID, err)
	}
	return auctions, nil
}

func (r *AuctionRepository) ListGuilds(ctx context.Context) ([]snowflake.ID, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var guildIDs []snowflake.ID
	err := r.db.NewSelect().
		Model((*models.Auction)(nil)).
		ColumnExpr("DISTINCT guild_id").
		Scan(ctx, &guildIDs)
	if err != nil {
		return nil, r.HandleError("list guilds", "auction", nil, err)
	}
	return guildIDs, nil
}
