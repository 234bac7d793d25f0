package auction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// Notification is a direct message sent to a participant.
type Notification struct {
	Title       string
	Description string
	URL         string
}

// notifier sends best effort direct messages. Failures are logged and dropped.
type notifier struct {
	platform Platform
}

func (n *notifier) outbid(a *models.Auction, userID snowflake.ID, amount int64) {
	n.send(userID, Notification{
		Title:       "You have been outbid",
		Description: fmt.Sprintf("Someone bid **%d** on `#%d` %s.", amount, a.AuctionID, a.Name),
		URL:         n.platform.JumpURL(a),
	})
}

func (n *notifier) closed(a *models.Auction) {
	url := n.platform.JumpURL(a)
	if !a.HasBid() {
		n.send(a.HostID, Notification{
			Title:       "Auction ended",
			Description: fmt.Sprintf("`#%d` %s ended without any bids.", a.AuctionID, a.Name),
			URL:         url,
		})
		return
	}

	n.send(a.HostID, Notification{
		Title:       "Auction sold",
		Description: fmt.Sprintf("`#%d` %s was sold to <@%s> for **%d**.", a.AuctionID, a.Name, *a.CurrentBidder, *a.CurrentBid),
		URL:         url,
	})
	n.send(*a.CurrentBidder, Notification{
		Title:       "Auction won",
		Description: fmt.Sprintf("You won `#%d` %s for **%d**. Contact <@%s> to receive it.", a.AuctionID, a.Name, *a.CurrentBid, a.HostID),
		URL:         url,
	})
}

func (n *notifier) removed(a *models.Auction, refunded bool) {
	if !a.HasBid() || !refunded {
		return
	}
	n.send(*a.CurrentBidder, Notification{
		Title:       "Auction removed",
		Description: fmt.Sprintf("`#%d` %s was removed. Your bid of **%d** was refunded.", a.AuctionID, a.Name, *a.CurrentBid),
	})
}

func (n *notifier) send(userID snowflake.ID, msg Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), config.NotifyTimeout)
	defer cancel()

	if err := n.platform.Notify(ctx, userID, msg); err != nil {
		slog.Debug("Failed to notify auction participant",
			slog.String("type", "auction"),
			slog.String("user_id", userID.String()),
			slog.String("title", msg.Title),
			slog.Any("error", err))
	}
}
