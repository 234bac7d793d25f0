package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

var _ Platform = (*DiscordPlatform)(nil)

// DiscordPlatform renders auctions as pinned messages in public threads.
type DiscordPlatform struct {
	client bot.Client
}

func NewDiscordPlatform(client bot.Client) *DiscordPlatform {
	return &DiscordPlatform{client: client}
}

// SetClient attaches the client once it has been built. It must be called
// before the gateway is opened.
func (p *DiscordPlatform) SetClient(client bot.Client) {
	p.client = client
}

func (p *DiscordPlatform) OpenAuction(ctx context.Context, a *models.Auction) (MessageHandle, error) {
	thread, err := p.client.Rest().CreateThread(a.ChannelID, discord.GuildPublicThreadCreate{
		Name:                a.Title(),
		AutoArchiveDuration: discord.AutoArchiveDuration1w,
	}, rest.WithCtx(ctx))
	if err != nil {
		return MessageHandle{}, fmt.Errorf("failed to create auction thread: %w", err)
	}

	msg, err := p.client.Rest().CreateMessage(thread.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{DisplayEmbed(a)},
	}, rest.WithCtx(ctx))
	if err != nil {
		return MessageHandle{}, fmt.Errorf("failed to post auction display: %w", err)
	}

	if err = p.client.Rest().PinMessage(thread.ID(), msg.ID, rest.WithCtx(ctx)); err != nil {
		slog.Warn("Failed to pin auction display",
			slog.String("type", "auction"),
			slog.String("thread_id", thread.ID().String()),
			slog.Any("error", err))
	}

	return MessageHandle{ChannelID: thread.ID(), MessageID: msg.ID}, nil
}

func (p *DiscordPlatform) ResolveMessage(ctx context.Context, a *models.Auction) (MessageHandle, error) {
	msg, err := p.client.Rest().GetMessage(a.ThreadID, a.MessageID, rest.WithCtx(ctx))
	if err != nil {
		if isGone(err) {
			return MessageHandle{}, fmt.Errorf("%w: %w", ErrUnresolvable, err)
		}
		return MessageHandle{}, fmt.Errorf("failed to fetch auction display: %w", err)
	}
	return MessageHandle{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (p *DiscordPlatform) UpdateDisplay(ctx context.Context, a *models.Auction) error {
	_, err := p.client.Rest().UpdateMessage(a.ThreadID, a.MessageID, discord.MessageUpdate{
		Embeds: &[]discord.Embed{DisplayEmbed(a)},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to update auction display: %w", err)
	}
	return nil
}

func (p *DiscordPlatform) FinalizeDisplay(ctx context.Context, a *models.Auction) error {
	_, err := p.client.Rest().UpdateMessage(a.ThreadID, a.MessageID, discord.MessageUpdate{
		Embeds: &[]discord.Embed{ClosedEmbed(a)},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to finalize auction display: %w", err)
	}
	return nil
}

func (p *DiscordPlatform) MarkRemoved(ctx context.Context, a *models.Auction) error {
	if a.MessageID == 0 {
		return nil
	}
	content := RemovedContent(a)
	_, err := p.client.Rest().UpdateMessage(a.ThreadID, a.MessageID, discord.MessageUpdate{
		Content: &content,
		Embeds:  &[]discord.Embed{},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to mark auction removed: %w", err)
	}
	return nil
}

// ArchiveThread posts the closing notice and archives the thread. Posting
// into an archived thread would reopen it, so the notice goes first.
func (p *DiscordPlatform) ArchiveThread(ctx context.Context, a *models.Auction) error {
	if _, err := p.client.Rest().CreateMessage(a.ThreadID, discord.MessageCreate{
		Content: ClosedContent(a),
	}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to post closing notice: %w", err)
	}

	archived := true
	if _, err := p.client.Rest().UpdateChannel(a.ThreadID, discord.GuildThreadUpdate{
		Archived: &archived,
	}, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to archive auction thread: %w", err)
	}
	return nil
}

func (p *DiscordPlatform) Notify(ctx context.Context, userID snowflake.ID, n Notification) error {
	dmChannel, err := p.client.Rest().CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(n.Title).
		SetDescription(n.Description).
		SetColor(config.BackgroundColor)
	if n.URL != "" {
		embed.SetURL(n.URL)
	}

	_, err = p.client.Rest().CreateMessage(dmChannel.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{embed.Build()},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

func (p *DiscordPlatform) JumpURL(a *models.Auction) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", a.GuildID, a.ThreadID, a.MessageID)
}

// isGone reports whether a REST error means the resource no longer exists
// or the bot lost access to it.
func isGone(err error) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	switch restErr.Response.StatusCode {
	case http.StatusNotFound, http.StatusForbidden:
		return true
	}
	return false
}
