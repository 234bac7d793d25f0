package auction

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

func TestFormatAmount(t *testing.T) {
	tests := map[int64]string{
		0:             "0",
		999:           "999",
		1000:          "1,000",
		1234567:       "1,234,567",
		-45000:        "-45,000",
		1_000_000_000: "1,000,000,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatAmount(in))
	}
}

func TestDisplayEmbed(t *testing.T) {
	bid := int64(1500)
	bidder := snowflake.ID(77)
	a := &models.Auction{
		AuctionID:     12,
		Name:          "Golden Sword",
		Description:   "Shiny",
		HostName:      "Ana",
		MinBid:        100,
		QuickSold:     int64Ptr(5000),
		CurrentBid:    &bid,
		CurrentBidder: &bidder,
		EndTime:       time.Unix(1714564800, 0),
	}

	embed := DisplayEmbed(a)
	assert.Equal(t, "#12 - Golden Sword", embed.Title)
	assert.Equal(t, "Shiny", embed.Description)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "<t:1714564800:R>", embed.Fields[0].Value)
	assert.Equal(t, "Quick Sold Amount", embed.Fields[1].Name)
	assert.Equal(t, "5,000", embed.Fields[1].Value)
	assert.Equal(t, "1,500 by <@77>", embed.Fields[3].Value)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Host: Ana", embed.Footer.Text)

	closed := ClosedEmbed(a)
	assert.Equal(t, "~~#12 - Golden Sword~~", closed.Title)
	assert.Equal(t, 0xFF0000, closed.Color)
}

func TestDisplayEmbedWithoutBid(t *testing.T) {
	a := &models.Auction{AuctionID: 3, Name: "Relic", HostName: "Bo", MinBid: 10, EndTime: time.Unix(100, 0)}

	embed := DisplayEmbed(a)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "None", embed.Fields[2].Value)
	assert.Equal(t, "# `#3` was removed.", RemovedContent(a))
	assert.Equal(t, "#3 has been closed.", ClosedContent(a))
}
