package auctions

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/utils"
)

// HandleContract makes a member an auctioneer. Bot owners only.
func (h *AuctionHandler) HandleContract(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}
	if !h.isOwner(e.User().ID) {
		return utils.EH.CreatePermissionError(e, "contract auctioneers")
	}

	member := e.SlashCommandInteractionData().User("member")

	ctx, cancel := commandContext()
	defer cancel()

	already, err := h.engine.IsAuctioneer(ctx, *guildID, member.ID)
	if err != nil {
		return fmt.Errorf("failed to check auctioneer: %w", err)
	}
	if already {
		return e.CreateMessage(plain("The user is already an auctioneer"))
	}
	if err = h.engine.GrantAuctioneer(ctx, *guildID, member.ID); err != nil {
		return fmt.Errorf("failed to grant auctioneer: %w", err)
	}
	return e.CreateMessage(plain(fmt.Sprintf("**%s** is now an auctioneer. 🤝", member.EffectiveName())))
}

// HandleResign resigns another auctioneer (guild owner or admin) or asks the
// caller to confirm resigning themselves.
func (h *AuctionHandler) HandleResign(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}

	ctx, cancel := commandContext()
	defer cancel()

	if member, ok := e.SlashCommandInteractionData().OptUser("member"); ok && isGuildAdmin(e) {
		if err := h.engine.RevokeAuctioneer(ctx, *guildID, member.ID); err != nil {
			return fmt.Errorf("failed to revoke auctioneer: %w", err)
		}
		return e.CreateMessage(plain(fmt.Sprintf("done.\n user: **%s**", member.EffectiveName())))
	}

	ok, err := h.engine.IsAuctioneer(ctx, *guildID, e.User().ID)
	if err != nil {
		return fmt.Errorf("failed to check auctioneer: %w", err)
	}
	if !ok {
		return e.CreateMessage(plain("you are not an auctioneer."))
	}

	return e.CreateMessage(discord.MessageCreate{
		Content:    fmt.Sprintf("resigning user: **%s**\nyou sure?", e.User().EffectiveName()),
		Components: resignComponents(e.User().ID),
	})
}

func resignComponents(userID snowflake.ID) []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewDangerButton("Yes", fmt.Sprintf("/auction-resign/%s/yes", userID)),
			discord.NewSecondaryButton("No", fmt.Sprintf("/auction-resign/%s/no", userID)),
		),
	}
}

// HandleResignConfirm applies the answer to a self resignation prompt.
func (h *AuctionHandler) HandleResignConfirm(e *handler.ComponentEvent) error {
	if e.Vars["user"] != e.User().ID.String() {
		return e.CreateMessage(ephemeral(foreignButtonMessage))
	}
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}

	content := resignAnswer(e.Vars["answer"], h.now().Sub(e.Message.CreatedAt) > h.opts.ConfirmTimeout, e.User().EffectiveName())
	if e.Vars["answer"] == "yes" && content != timeoutMessage {
		ctx, cancel := commandContext()
		defer cancel()

		if err := h.engine.RevokeAuctioneer(ctx, *guildID, e.User().ID); err != nil {
			return fmt.Errorf("failed to revoke auctioneer: %w", err)
		}
	}

	return e.UpdateMessage(discord.MessageUpdate{
		Content:    &content,
		Components: &[]discord.ContainerComponent{},
	})
}

const timeoutMessage = "took too long to respond."

func resignAnswer(answer string, late bool, name string) string {
	switch {
	case late:
		return timeoutMessage
	case answer == "yes":
		return fmt.Sprintf("**%s** resigned from being an auctioneer. 🤝", name)
	default:
		return "cancelled."
	}
}
