package auctions

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

const notReadyMessage = "Auctions are still being restored. Try again in a moment."

// HandleBid places a bid on the auction of the current thread.
func (h *AuctionHandler) HandleBid(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}

	amount, err := ParseAmount(e.SlashCommandInteractionData().String("amount"))
	if err != nil {
		return e.CreateMessage(plain(BidErrorMessage(err)))
	}

	if wait := h.cooldowns.take(*guildID, e.User().ID, h.now()); wait > 0 {
		return e.CreateMessage(ephemeral(fmt.Sprintf("You are on cooldown. Try again in %.0fs.", wait.Seconds())))
	}

	if err = e.DeferCreateMessage(false); err != nil {
		return fmt.Errorf("failed to defer message: %w", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	outcome, err := h.engine.Bid(ctx, *guildID, e.ChannelID(), e.User().ID, amount)
	var content string
	if err != nil {
		if errors.Is(err, auction.ErrTransient) {
			slog.Error("Failed to place bid",
				slog.String("type", "cmd"),
				slog.String("guild_id", guildID.String()),
				slog.String("channel_id", e.ChannelID().String()),
				slog.Int64("amount", amount),
				slog.Any("error", err))
		}
		content = BidErrorMessage(err)
	} else {
		content = BidSuccessMessage(outcome)
	}

	_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
		Content:         &content,
		AllowedMentions: &discord.AllowedMentions{},
	})
	return err
}

// ParseAmount parses a bid amount. Values beyond int64 fail with ErrBidOverflow.
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
			return 0, auction.ErrBidOverflow
		}
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	if v <= 0 {
		return 0, ErrNotPositive
	}
	return v, nil
}

// BidErrorMessage is the reply for a rejected bid.
func BidErrorMessage(err error) string {
	var rejection *auction.BidRejection
	switch {
	case errors.Is(err, auction.ErrNotReady):
		return notReadyMessage
	case errors.Is(err, auction.ErrNotFound):
		return "No active auction found in this channel (thread)."
	case errors.Is(err, auction.ErrBidOverflow):
		return "too big.."
	case errors.Is(err, auction.ErrBidTooLow):
		if errors.As(err, &rejection) && rejection.CurrentBid == nil {
			return fmt.Sprintf("Can't do that. Minimum bid is **%d**.", rejection.MinBid)
		}
		if rejection != nil {
			return fmt.Sprintf("Can't do that. Current bid is **%d**.", *rejection.CurrentBid)
		}
		return "Can't do that. Your bid is too low."
	case errors.Is(err, auction.ErrInsufficientFunds):
		if errors.As(err, &rejection) {
			return fmt.Sprintf("You do not have enough balance to place this bid. Your current balance is **%d**.", rejection.Balance)
		}
		return "You do not have enough balance to place this bid."
	case errors.Is(err, ErrNotPositive):
		return "Amount must be greater than zero."
	case errors.Is(err, ErrInvalidInput):
		return "Invalid Input"
	default:
		return "Something went wrong while placing your bid. Please try again."
	}
}

// BidSuccessMessage is the reply for an accepted bid.
func BidSuccessMessage(o *auction.BidOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your bid of %d has been placed.", o.Amount)
	if o.Sold {
		fmt.Fprintf(&sb, "\nThe quick sell price was reached, `#%d` is sold!", o.Auction.AuctionID)
	} else if o.Extended {
		fmt.Fprintf(&sb, "\nThe auction was extended and now ends <t:%d:R>.", o.Auction.EndTime.Unix())
	}
	return sb.String()
}

type cooldownKey struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// cooldowns allows one bid per user per window.
type cooldowns struct {
	window time.Duration
	last   *xsync.MapOf[cooldownKey, time.Time]
}

func newCooldowns(window time.Duration) *cooldowns {
	return &cooldowns{
		window: window,
		last:   xsync.NewMapOf[cooldownKey, time.Time](),
	}
}

// take records a bid at now and returns zero, or returns how long the user
// still has to wait.
func (c *cooldowns) take(guildID snowflake.ID, userID snowflake.ID, now time.Time) time.Duration {
	var wait time.Duration
	c.last.Compute(cooldownKey{GuildID: guildID, UserID: userID}, func(last time.Time, loaded bool) (time.Time, bool) {
		if loaded && now.Sub(last) < c.window {
			wait = c.window - now.Sub(last)
			return last, false
		}
		return now, false
	})
	return wait
}

// sweep drops entries older than the window.
func (c *cooldowns) sweep(now time.Time) {
	c.last.Range(func(k cooldownKey, last time.Time) bool {
		if now.Sub(last) >= c.window {
			c.last.Delete(k)
		}
		return true
	})
}

func (c *cooldowns) len() int {
	return c.last.Size()
}
