package auctions

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	"github.com/disgoorg/auction-bot/auctionbot/utils"
)

// HandleToggleBank flips whether bids move currency in this guild. Bot owners only.
func (h *AuctionHandler) HandleToggleBank(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}
	if !h.isOwner(e.User().ID) {
		return utils.EH.CreatePermissionError(e, "toggle the bank")
	}

	ctx, cancel := commandContext()
	defer cancel()

	enabled, err := h.engine.ToggleBank(ctx, *guildID)
	if err != nil {
		return fmt.Errorf("failed to toggle bank: %w", err)
	}
	status := "disabled"
	if enabled {
		status = "enabled"
	}
	return e.CreateMessage(plain(fmt.Sprintf("Bank system has been **%s** for auctions.", status)))
}

// HandleForceRemove removes an auction without settlement. Bot owners only.
func (h *AuctionHandler) HandleForceRemove(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}
	if !h.isOwner(e.User().ID) {
		return utils.EH.CreatePermissionError(e, "remove auctions")
	}

	raw := e.SlashCommandInteractionData().String("auction")
	id, err := ParseAuctionID(raw)
	if err != nil {
		return utils.EH.CreateUserError(e, fmt.Sprintf("`%s` is not an auction id.", raw))
	}

	if err = e.DeferCreateMessage(false); err != nil {
		return fmt.Errorf("failed to defer message: %w", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	a, err := h.engine.ForceRemove(ctx, auction.Key{GuildID: *guildID, AuctionID: id})
	content := ForceRemoveMessage(a, id, err, h.engine.JumpURL)
	if err != nil && !errors.Is(err, auction.ErrNotFound) && !errors.Is(err, auction.ErrNotReady) {
		slog.Error("Failed to force remove auction",
			slog.String("type", "cmd"),
			slog.String("guild_id", guildID.String()),
			slog.Int64("auction_id", id),
			slog.Any("error", err))
	}

	_, err = e.UpdateInteractionResponse(discord.MessageUpdate{Content: &content})
	return err
}

// ParseAuctionID accepts "12" and "#12".
func ParseAuctionID(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: auction id %q", ErrInvalidInput, s)
	}
	return id, nil
}

// ForceRemoveMessage is the reply to a force removal.
func ForceRemoveMessage(a *models.Auction, id int64, err error, jumpURL func(*models.Auction) string) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Auction `#%d` removed.\n%s", id, jumpURL(a))
	case errors.Is(err, auction.ErrNotFound):
		return fmt.Sprintf("No auction found `#%d`.", id)
	case errors.Is(err, auction.ErrNotReady):
		return notReadyMessage
	default:
		return fmt.Sprintf("Failed to remove auction `#%d`. Please try again.", id)
	}
}

// HandleForceRemoveAutocomplete suggests active auctions by id or name.
func (h *AuctionHandler) HandleForceRemoveAutocomplete(e *handler.AutocompleteEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.AutocompleteResult([]discord.AutocompleteChoice{})
	}

	query := ""
	if focused := e.Data.Focused(); focused.Value != nil {
		var s string
		if err := json.Unmarshal(focused.Value, &s); err == nil {
			query = strings.TrimSpace(s)
		}
	}

	ctx, cancel := commandContext()
	defer cancel()

	auctions, err := h.engine.List(ctx, *guildID)
	if err != nil {
		slog.Error("Failed to list auctions for autocomplete",
			slog.String("type", "cmd"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
		return e.AutocompleteResult([]discord.AutocompleteChoice{})
	}

	return e.AutocompleteResult(AuctionChoices(auctions, query, config.AutocompleteLimit))
}

// auctionSearchItems implements fuzzy.Source over auction titles.
type auctionSearchItems []*models.Auction

func (items auctionSearchItems) Len() int {
	return len(items)
}

func (items auctionSearchItems) String(i int) string {
	return items[i].Title()
}

// AuctionChoices ranks auctions against query. An empty query lists them in id order.
func AuctionChoices(auctions []*models.Auction, query string, limit int) []discord.AutocompleteChoice {
	ranked := auctions
	if query != "" {
		matches := fuzzy.FindFrom(query, auctionSearchItems(auctions))
		ranked = make([]*models.Auction, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, auctions[m.Index])
		}
	}

	choices := make([]discord.AutocompleteChoice, 0, min(len(ranked), limit))
	for _, a := range ranked {
		if len(choices) == limit {
			break
		}
		name := a.Title()
		if r := []rune(name); len(r) > 100 {
			name = string(r[:100])
		}
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  name,
			Value: strconv.FormatInt(a.AuctionID, 10),
		})
	}
	return choices
}
