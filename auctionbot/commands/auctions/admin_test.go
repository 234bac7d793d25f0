package auctions

import (
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

func testAuctions() []*models.Auction {
	names := []string{"Golden Sword", "Silver Shield", "Ancient Scroll", "Golden Goose"}
	auctions := make([]*models.Auction, 0, len(names))
	for i, name := range names {
		auctions = append(auctions, &models.Auction{
			GuildID:   42,
			AuctionID: int64(i + 1),
			Name:      name,
			ThreadID:  1000,
			EndTime:   time.Unix(1_700_000_000, 0),
		})
	}
	return auctions
}

func TestAuctionChoices(t *testing.T) {
	auctions := testAuctions()

	all := AuctionChoices(auctions, "", 25)
	require.Len(t, all, 4)
	assert.Equal(t, "1", all[0].(discord.AutocompleteChoiceString).Value)

	limited := AuctionChoices(auctions, "", 2)
	assert.Len(t, limited, 2)

	golden := AuctionChoices(auctions, "golden", 25)
	require.Len(t, golden, 2)
	for _, c := range golden {
		assert.Contains(t, c.(discord.AutocompleteChoiceString).Name, "Golden")
	}

	assert.Empty(t, AuctionChoices(auctions, "zzzz", 25))
}

func TestParseAuctionID(t *testing.T) {
	id, err := ParseAuctionID("#12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	id, err = ParseAuctionID(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = ParseAuctionID("0")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseAuctionID("sword")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestForceRemoveMessage(t *testing.T) {
	a := &models.Auction{AuctionID: 4}
	jump := func(*models.Auction) string { return "https://jump" }

	assert.Equal(t, "Auction `#4` removed.\nhttps://jump", ForceRemoveMessage(a, 4, nil, jump))
	assert.Equal(t, "No auction found `#9`.", ForceRemoveMessage(nil, 9, auction.ErrNotFound, jump))
	assert.Equal(t, notReadyMessage, ForceRemoveMessage(nil, 9, auction.ErrNotReady, jump))
	assert.Contains(t, ForceRemoveMessage(nil, 9, fmt.Errorf("x: %w", auction.ErrTransient), jump), "Failed to remove")
}

func TestListPage(t *testing.T) {
	auctions := testAuctions()

	assert.Equal(t, 1, pageCount(0, 10))
	assert.Equal(t, 2, pageCount(4, 3))

	page := listPage(auctions, 1, 3)
	assert.Equal(t, "`#4` <#1000> • Golden Goose • ends <t:1700000000:R>", page)
	assert.Empty(t, listPage(auctions, 5, 3))
}

func TestResignAnswer(t *testing.T) {
	assert.Equal(t, timeoutMessage, resignAnswer("yes", true, "bob"))
	assert.Equal(t, "**bob** resigned from being an auctioneer. 🤝", resignAnswer("yes", false, "bob"))
	assert.Equal(t, "cancelled.", resignAnswer("no", false, "bob"))
}

func TestIsOwner(t *testing.T) {
	h, err := NewAuctionHandler(nil, nil, Options{OwnerIDs: []snowflake.ID{5, 6}})
	require.NoError(t, err)

	assert.True(t, h.isOwner(5))
	assert.False(t, h.isOwner(7))
	assert.Equal(t, config.BidCooldown, h.opts.BidCooldown)
}
