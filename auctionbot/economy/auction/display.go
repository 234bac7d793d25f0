package auction

import (
	"fmt"
	"strconv"

	"github.com/disgoorg/disgo/discord"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// DisplayEmbed renders the pinned embed of a running auction.
func DisplayEmbed(a *models.Auction) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle(a.Title()).
		SetColor(config.AuctionOpenColor).
		AddField("Time Remaining", fmt.Sprintf("<t:%d:R>", a.EndTime.Unix()), false)

	if a.Description != "" {
		builder.SetDescription(a.Description)
	}
	if a.QuickSold != nil {
		builder.AddField("Quick Sold Amount", FormatAmount(*a.QuickSold), true)
	}
	builder.AddField("Min Bid", FormatAmount(a.MinBid), true)
	builder.AddField("Current Bid", currentBid(a), true)
	builder.SetFooterText("Host: " + a.HostName)

	return builder.Build()
}

// ClosedEmbed renders the final state of a settled auction.
func ClosedEmbed(a *models.Auction) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle("~~" + a.Title() + "~~").
		SetColor(config.AuctionClosedColor).
		AddField("Ended", fmt.Sprintf("<t:%d:f>", a.EndTime.Unix()), false)

	if a.Description != "" {
		builder.SetDescription(a.Description)
	}
	if a.HasBid() {
		builder.AddField("Sold out to", fmt.Sprintf("<@%s>", *a.CurrentBidder), true)
		builder.AddField("Final Bid", FormatAmount(*a.CurrentBid), true)
	} else {
		builder.AddField("Result", "No bids were placed.", true)
	}
	builder.SetFooterText("Host: " + a.HostName)

	return builder.Build()
}

// RemovedContent replaces the display of a removed auction.
func RemovedContent(a *models.Auction) string {
	return fmt.Sprintf("# `#%d` was removed.", a.AuctionID)
}

// ClosedContent is posted in the thread before it is archived.
func ClosedContent(a *models.Auction) string {
	return fmt.Sprintf("#%d has been closed.", a.AuctionID)
}

func currentBid(a *models.Auction) string {
	if !a.HasBid() {
		return "None"
	}
	return fmt.Sprintf("%s by <@%s>", FormatAmount(*a.CurrentBid), *a.CurrentBidder)
}

// FormatAmount groups the digits of v with commas.
func FormatAmount(v int64) string {
	if v < 0 {
		return "-" + FormatAmount(-v)
	}
	s := strconv.FormatInt(v, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
