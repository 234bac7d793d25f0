package auctions

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/disgoorg/auction-bot/auctionbot/config"
	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	"github.com/disgoorg/auction-bot/auctionbot/handlers"
)

// Engine is the part of the auction engine the commands drive.
type Engine interface {
	Ready() bool
	Create(ctx context.Context, params auction.CreateParams) (*models.Auction, error)
	Bid(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID, bidderID snowflake.ID, amount int64) (*auction.BidOutcome, error)
	List(ctx context.Context, guildID snowflake.ID) ([]*models.Auction, error)
	ForceRemove(ctx context.Context, key auction.Key) (*models.Auction, error)
	GrantAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error
	RevokeAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error
	IsAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (bool, error)
	ToggleBank(ctx context.Context, guildID snowflake.ID) (bool, error)
	JumpURL(a *models.Auction) string
}

var _ Engine = (*auction.Engine)(nil)

type Options struct {
	OwnerIDs       []snowflake.ID
	BidCooldown    time.Duration
	WizardTimeout  time.Duration
	ConfirmTimeout time.Duration
}

type AuctionHandler struct {
	engine    Engine
	paginator *paginator.Manager
	opts      Options
	drafts    *lru.Cache
	cooldowns *cooldowns
	now       func() time.Time
}

func NewAuctionHandler(engine Engine, pg *paginator.Manager, opts Options) (*AuctionHandler, error) {
	if opts.BidCooldown <= 0 {
		opts.BidCooldown = config.BidCooldown
	}
	if opts.WizardTimeout <= 0 {
		opts.WizardTimeout = config.WizardTimeout
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = config.ConfirmTimeout
	}

	drafts, err := lru.New(config.DraftCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft cache: %w", err)
	}

	return &AuctionHandler{
		engine:    engine,
		paginator: pg,
		opts:      opts,
		drafts:    drafts,
		cooldowns: newCooldowns(opts.BidCooldown),
		now:       time.Now,
	}, nil
}

func (h *AuctionHandler) Register(r handler.Router) {
	r.Route("/auction", func(r handler.Router) {
		r.Command("/create", handlers.WrapWithLogging("auction-create", h.HandleCreate))
		r.Command("/bid", handlers.WrapWithLogging("auction-bid", h.HandleBid))
		r.Command("/list", handlers.WrapWithLogging("auction-list", h.HandleList))
		r.Command("/contract", handlers.WrapWithLogging("auction-contract", h.HandleContract))
		r.Command("/resign", handlers.WrapWithLogging("auction-resign", h.HandleResign))
		r.Command("/togglebank", handlers.WrapWithLogging("auction-togglebank", h.HandleToggleBank))
		r.Command("/forceremove", handlers.WrapWithLogging("auction-forceremove", h.HandleForceRemove))
		r.Autocomplete("/forceremove", h.HandleForceRemoveAutocomplete)
	})

	// Component patterns must start with /
	r.Component("/auction-setup/configure/{draft}", handlers.WrapComponentWithLogging("auction-configure", h.HandleConfigure))
	r.Component("/auction-setup/confirm/{draft}", handlers.WrapComponentWithLogging("auction-confirm", h.HandleConfirm))
	r.Component("/auction-setup/cancel/{draft}", handlers.WrapComponentWithLogging("auction-cancel", h.HandleCancel))
	r.Modal("/auction-setup/info/{draft}", handlers.WrapModalWithLogging("auction-info", h.HandleInfoSubmit))
	r.Component("/auction-resign/{user}/{answer}", handlers.WrapComponentWithLogging("auction-resign-confirm", h.HandleResignConfirm))
}

func (h *AuctionHandler) isOwner(userID snowflake.ID) bool {
	return slices.Contains(h.opts.OwnerIDs, userID)
}

// isGuildAdmin reports whether the caller owns the guild or has the administrator permission.
func isGuildAdmin(e *handler.CommandEvent) bool {
	if member := e.Member(); member != nil && member.Permissions.Has(discord.PermissionAdministrator) {
		return true
	}
	guildID := e.GuildID()
	if guildID == nil {
		return false
	}
	guild, ok := e.Client().Caches().Guild(*guildID)
	return ok && guild.OwnerID == e.User().ID
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
}

func ephemeral(content string) discord.MessageCreate {
	return discord.MessageCreate{
		Content: content,
		Flags:   discord.MessageFlagEphemeral,
	}
}

func plain(content string) discord.MessageCreate {
	return discord.MessageCreate{
		Content:         content,
		AllowedMentions: &discord.AllowedMentions{},
	}
}

const guildOnlyMessage = "This command can only be used in a server."

// StartCleanupRoutine drops stale bid cooldowns until ctx is done.
func (h *AuctionHandler) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.cooldowns.sweep(h.now())
			}
		}
	}()
}
