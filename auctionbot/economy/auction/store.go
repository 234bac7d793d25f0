package auction

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// Store persists auction records. Missing records are reported as ErrNotFound.
type Store interface {
	NextAuctionID(ctx context.Context, guildID snowflake.ID) (int64, error)
	// ReleaseAuctionID rolls the counter back when id is still its latest value.
	ReleaseAuctionID(ctx context.Context, guildID snowflake.ID, id int64) error
	Create(ctx context.Context, a *models.Auction) error
	Get(ctx context.Context, key Key) (*models.Auction, error)
	GetByThread(ctx context.Context, guildID snowflake.ID, threadID snowflake.ID) (*models.Auction, error)
	Update(ctx context.Context, a *models.Auction) error
	Delete(ctx context.Context, key Key) error
	List(ctx context.Context, guildID snowflake.ID) ([]*models.Auction, error)
	ListGuilds(ctx context.Context) ([]snowflake.ID, error)
}

// Settings exposes the per guild bank toggle.
type Settings interface {
	UseBank(ctx context.Context, guildID snowflake.ID) (bool, error)
	ToggleBank(ctx context.Context, guildID snowflake.ID) (bool, error)
}

// Roster tracks which members may host auctions.
type Roster interface {
	IsAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (bool, error)
	SetAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, auctioneer bool) error
}

// Ledger moves currency. Withdraw fails with ErrInsufficientFunds when the
// balance does not cover the amount.
type Ledger interface {
	Balance(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (int64, error)
	Withdraw(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, amount int64) error
	Deposit(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, amount int64) error
}

// Platform renders auctions in chat and resolves their display messages.
// ResolveMessage returns ErrUnresolvable when the message is gone for good.
type Platform interface {
	OpenAuction(ctx context.Context, a *models.Auction) (MessageHandle, error)
	ResolveMessage(ctx context.Context, a *models.Auction) (MessageHandle, error)
	UpdateDisplay(ctx context.Context, a *models.Auction) error
	FinalizeDisplay(ctx context.Context, a *models.Auction) error
	MarkRemoved(ctx context.Context, a *models.Auction) error
	ArchiveThread(ctx context.Context, a *models.Auction) error
	Notify(ctx context.Context, userID snowflake.ID, n Notification) error
	JumpURL(a *models.Auction) string
}

// ReceiptSink archives settlement receipts.
type ReceiptSink interface {
	StoreReceipt(ctx context.Context, receipt Receipt) error
}
