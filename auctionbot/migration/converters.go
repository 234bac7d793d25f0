package migration

import (
	"fmt"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// ImportedName is used for imported auctions; the legacy data never stored a name.
const ImportedName = "Imported auction"

func parseID(s string) (snowflake.ID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return snowflake.ID(id), nil
}

func convertGuild(guildID snowflake.ID, g LegacyGuild, now time.Time) *models.AuctionGuild {
	count := g.AuctionCount
	for _, a := range g.Auctions {
		count = max(count, a.AuctionID)
	}
	return &models.AuctionGuild{
		GuildID:      guildID,
		AuctionCount: count,
		UseBank:      g.UseBank,
		UpdatedAt:    now,
	}
}

// convertAuction maps a running legacy auction to an active record.
func convertAuction(guildID snowflake.ID, la LegacyAuction, now time.Time) (*models.Auction, error) {
	switch {
	case la.AuctionID <= 0:
		return nil, fmt.Errorf("missing auction id")
	case la.ThreadID == 0 || la.MessageID == 0:
		return nil, fmt.Errorf("auction #%d has no display message", la.AuctionID)
	case la.HostID == 0:
		return nil, fmt.Errorf("auction #%d has no host", la.AuctionID)
	case la.EndTimestamp <= 0:
		return nil, fmt.Errorf("auction #%d has no end time", la.AuctionID)
	}

	a := &models.Auction{
		GuildID:   guildID,
		AuctionID: la.AuctionID,
		HostID:    snowflake.ID(la.HostID),
		State:     models.AuctionStateActive,
		Name:      ImportedName,
		ThreadID:  snowflake.ID(la.ThreadID),
		MessageID: snowflake.ID(la.MessageID),
		MinBid:    max(la.MinBid, 1),
		QuickSold: la.QuickSold,
		EndTime:   time.Unix(la.EndTimestamp, 0).UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// a bid needs both halves
	if la.CurrentBid != nil && la.CurrentBidder != nil && *la.CurrentBidder != 0 {
		bidder := snowflake.ID(*la.CurrentBidder)
		a.CurrentBid = la.CurrentBid
		a.CurrentBidder = &bidder
	}
	return a, nil
}
