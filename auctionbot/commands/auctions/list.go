package auctions

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// HandleList pages through the active auctions of the guild.
func (h *AuctionHandler) HandleList(e *handler.CommandEvent) error {
	guildID := e.GuildID()
	if guildID == nil {
		return e.CreateMessage(ephemeral(guildOnlyMessage))
	}

	ctx, cancel := commandContext()
	defer cancel()

	auctions, err := h.engine.List(ctx, *guildID)
	if err != nil {
		return fmt.Errorf("failed to list auctions: %w", err)
	}
	if len(auctions) == 0 {
		return e.CreateMessage(plain("There are no active auctions in this server."))
	}

	totalPages := pageCount(len(auctions), config.AuctionsPerPage)

	return h.paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			embed.
				SetTitle("🏛️ Active Auctions").
				SetDescription(listPage(auctions, page, config.AuctionsPerPage)).
				SetColor(config.BackgroundColor).
				SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(auctions)), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func pageCount(n int, perPage int) int {
	if n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// listPage renders one page of auctions as thread mentions.
func listPage(auctions []*models.Auction, page int, perPage int) string {
	start := page * perPage
	if start >= len(auctions) {
		return ""
	}
	end := min(start+perPage, len(auctions))

	var sb strings.Builder
	for _, a := range auctions[start:end] {
		fmt.Fprintf(&sb, "`#%d` <#%s> • %s • ends <t:%d:R>\n", a.AuctionID, a.ThreadID, a.Name, a.EndTime.Unix())
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
