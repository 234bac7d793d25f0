package models

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestAuctionCloneIsDeep(t *testing.T) {
	bid := int64(50)
	bidder := snowflake.ID(7)
	quick := int64(500)
	a := &Auction{
		AuctionID:     3,
		Name:          "Golden Sword",
		CurrentBid:    &bid,
		CurrentBidder: &bidder,
		QuickSold:     &quick,
		EndTime:       time.Unix(1000, 0),
	}

	c := a.Clone()
	*c.CurrentBid = 99
	*c.CurrentBidder = 8
	*c.QuickSold = 1

	assert.Equal(t, int64(50), *a.CurrentBid)
	assert.Equal(t, snowflake.ID(7), *a.CurrentBidder)
	assert.Equal(t, int64(500), *a.QuickSold)
	assert.Equal(t, "#3 - Golden Sword", c.Title())
	assert.True(t, a.HasBid())
	assert.Nil(t, (*Auction)(nil).Clone())
}
