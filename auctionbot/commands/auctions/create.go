package auctions

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

const (
	foreignButtonMessage = "You cannot use this button :("
	draftExpiredMessage  = "This auction setup has expired. Run `/auction create` again."
)

// HandleCreate posts the setup message of a new auction draft.
func (h *AuctionHandler) HandleCreate(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}
	if ch, ok := e.Client().Caches().Channel(e.ChannelID()); ok && ch.Type() != discord.ChannelTypeGuildText {
		return e.CreateMessage(ephemeral("can only use this command in a Text Channel"))
	}
	if !h.engine.Ready() {
		return e.CreateMessage(ephemeral(notReadyMessage))
	}

	ctx, cancel := commandContext()
	defer cancel()

	if !h.isOwner(e.User().ID) {
		ok, err := h.engine.IsAuctioneer(ctx, *guildID, e.User().ID)
		if err != nil {
			return fmt.Errorf("failed to check auctioneer: %w", err)
		}
		if !ok {
			return e.CreateMessage(ephemeral("you need to be an auctioneer to create auction."))
		}
	}

	d := draft{
		ID:        uuid.NewString(),
		GuildID:   *guildID,
		ChannelID: e.ChannelID(),
		HostID:    e.User().ID,
		HostName:  e.User().EffectiveName(),
		CreatedAt: h.now(),
	}
	h.drafts.Add(d.ID, d)

	return e.CreateMessage(discord.MessageCreate{
		Embeds:     []discord.Embed{setupEmbed(d, h.now())},
		Components: setupComponents(d),
	})
}

// HandleConfigure opens the auction info modal.
func (h *AuctionHandler) HandleConfigure(e *handler.ComponentEvent) error {
	d, msg, ok := h.loadDraft(e.Vars["draft"], e.User().ID)
	if !ok {
		return e.CreateMessage(ephemeral(msg))
	}
	return e.Modal(infoModal(d))
}

// HandleInfoSubmit validates the modal and refreshes the setup message.
func (h *AuctionHandler) HandleInfoSubmit(e *handler.ModalEvent) error {
	d, msg, ok := h.loadDraft(e.Vars["draft"], e.User().ID)
	if !ok {
		return e.CreateMessage(ephemeral(msg))
	}

	in, err := ParseWizardInput(
		e.Data.Text(inputName),
		e.Data.Text(inputDescription),
		e.Data.Text(inputTimePeriod),
		e.Data.Text(inputQuickSold),
		e.Data.Text(inputMinBid),
	)
	if err != nil {
		return e.CreateMessage(ephemeral(WizardErrorMessage(err)))
	}

	d.Input = &in
	h.drafts.Add(d.ID, d)

	return e.UpdateMessage(discord.MessageUpdate{
		Embeds:     &[]discord.Embed{setupEmbed(d, h.now())},
		Components: &[]discord.ContainerComponent{setupComponents(d)[0]},
	})
}

// HandleConfirm creates the configured auction.
func (h *AuctionHandler) HandleConfirm(e *handler.ComponentEvent) error {
	d, msg, ok := h.loadDraft(e.Vars["draft"], e.User().ID)
	if !ok {
		return e.CreateMessage(ephemeral(msg))
	}
	if d.Input == nil {
		return e.CreateMessage(ephemeral("Configure the auction first."))
	}
	h.drafts.Remove(d.ID)

	if err := e.DeferUpdateMessage(); err != nil {
		return fmt.Errorf("failed to defer message: %w", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	a, err := h.engine.Create(ctx, d.params())
	if err != nil {
		slog.Error("Failed to create auction",
			slog.String("type", "cmd"),
			slog.String("guild_id", d.GuildID.String()),
			slog.String("host_id", d.HostID.String()),
			slog.Any("error", err))
		content := CreateErrorMessage(err)
		_, updErr := e.UpdateInteractionResponse(discord.MessageUpdate{
			Content:    &content,
			Embeds:     &[]discord.Embed{},
			Components: &[]discord.ContainerComponent{},
		})
		return updErr
	}

	content := fmt.Sprintf("Auction `#%d` is live in <#%s>.", a.AuctionID, a.ThreadID)
	_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
		Content:    &content,
		Embeds:     &[]discord.Embed{},
		Components: &[]discord.ContainerComponent{},
	})
	return err
}

// loadDraft returns the draft of a setup message if userID may act on it.
// A rejected draft is still returned when it exists.
func (h *AuctionHandler) loadDraft(id string, userID snowflake.ID) (draft, string, bool) {
	v, ok := h.drafts.Get(id)
	if !ok {
		return draft{}, draftExpiredMessage, false
	}
	d := v.(draft)
	if d.HostID != userID {
		return d, foreignButtonMessage, false
	}
	if d.expired(h.now(), h.opts.WizardTimeout) {
		h.drafts.Remove(id)
		return d, draftExpiredMessage, false
	}
	return d, "", true
}

// HandleCancel discards the draft.
func (h *AuctionHandler) HandleCancel(e *handler.ComponentEvent) error {
	d, msg, ok := h.loadDraft(e.Vars["draft"], e.User().ID)
	// an expired draft can still be cancelled by its host
	if !ok && (d.ID == "" || d.HostID != e.User().ID) {
		return e.CreateMessage(ephemeral(msg))
	}
	h.drafts.Remove(d.ID)

	content := "Auction setup cancelled."
	return e.UpdateMessage(discord.MessageUpdate{
		Content:    &content,
		Embeds:     &[]discord.Embed{},
		Components: &[]discord.ContainerComponent{},
	})
}

// CreateErrorMessage is the reply for a failed auction creation.
func CreateErrorMessage(err error) string {
	switch {
	case errors.Is(err, auction.ErrNotReady):
		return notReadyMessage
	case errors.Is(err, auction.ErrInvalidParams):
		return "Invalid Input: " + err.Error()
	default:
		return "Failed to create the auction. Please try again."
	}
}
