package auction

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// Engine owns the auction lifecycle: creation, bidding, deadline timers,
// settlement and recovery after a restart.
type Engine struct {
	cfg      Config
	store    Store
	settings Settings
	roster   Roster
	ledger   Ledger
	platform Platform
	receipts ReceiptSink

	scheduler *Scheduler
	locks     *lockTable
	handles   *xsync.MapOf[Key, MessageHandle]
	ready     atomic.Bool
	now       func() time.Time

	bids       *BidProcessor
	settlement *SettlementService
	recovery   *RecoveryManager
	notifier   *notifier
}

func NewEngine(store Store, settings Settings, roster Roster, ledger Ledger, platform Platform, cfg Config) *Engine {
	if store == nil || settings == nil || roster == nil || ledger == nil || platform == nil {
		panic("auction engine requires store, settings, roster, ledger and platform")
	}

	e := &Engine{
		cfg:      cfg.withDefaults(),
		store:    store,
		settings: settings,
		roster:   roster,
		ledger:   ledger,
		platform: platform,
		locks:    newLockTable(),
		handles:  xsync.NewMapOf[Key, MessageHandle](),
		now:      time.Now,
	}
	e.scheduler = NewScheduler(func() time.Time { return e.now() })
	e.notifier = &notifier{platform: platform}
	e.bids = &BidProcessor{engine: e}
	e.settlement = &SettlementService{engine: e}
	e.recovery = &RecoveryManager{engine: e}
	return e
}

// SetReceiptSink enables settlement receipts.
func (e *Engine) SetReceiptSink(sink ReceiptSink) {
	e.receipts = sink
}

// SetClock replaces the wall clock. It must be called before any auction is armed.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Ready reports whether recovery has finished and commands are accepted.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Create opens a new auction: it allocates the id, opens the thread with the
// pinned display, persists the record and arms the deadline.
func (e *Engine) Create(ctx context.Context, params CreateParams) (*models.Auction, error) {
	if !e.Ready() {
		return nil, ErrNotReady
	}
	if err := params.Validate(e.cfg.MaxBid); err != nil {
		return nil, err
	}

	id, err := e.store.NextAuctionID(ctx, params.GuildID)
	if err != nil {
		return nil, transient("allocate auction id", err)
	}

	now := e.now().Truncate(time.Second)
	a := &models.Auction{
		GuildID:     params.GuildID,
		AuctionID:   id,
		HostID:      params.HostID,
		HostName:    params.HostName,
		State:       models.AuctionStateDraft,
		Name:        params.Name,
		Description: params.Description,
		ChannelID:   params.ChannelID,
		MinBid:      params.MinBid,
		QuickSold:   params.QuickSold,
		EndTime:     now.Add(params.TimePeriod.Truncate(time.Second)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	key := KeyOf(a)

	unlock := e.locks.lock(key)
	defer unlock()

	handle, err := e.platform.OpenAuction(ctx, a)
	if err != nil {
		e.abandonCreate(ctx, key)
		return nil, transient("open auction thread", err)
	}
	a.ThreadID = handle.ChannelID
	a.MessageID = handle.MessageID
	a.State = models.AuctionStateActive

	if err = e.store.Create(ctx, a); err != nil {
		if markErr := e.platform.MarkRemoved(ctx, a); markErr != nil {
			slog.Warn("Failed to clean up display of unsaved auction",
				slog.String("type", "auction"),
				slog.String("auction", key.String()),
				slog.Any("error", markErr))
		}
		e.abandonCreate(ctx, key)
		return nil, transient("save auction", err)
	}

	e.handles.Store(key, handle)
	if err = e.scheduler.Arm(key, a.EndTime, e.onDeadline); err != nil {
		slog.Error("Failed to arm auction deadline",
			slog.String("type", "auction"),
			slog.String("auction", key.String()),
			slog.Any("error", err))
	}

	slog.Info("Auction created",
		slog.String("type", "auction"),
		slog.String("guild_id", a.GuildID.String()),
		slog.Int64("auction_id", a.AuctionID),
		slog.String("host_id", a.HostID.String()),
		slog.Time("end_time", a.EndTime))
	return a.Clone(), nil
}

// Bid places a bid on the auction whose thread is channelID.
func (e *Engine) Bid(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID, bidderID snowflake.ID, amount int64) (*BidOutcome, error) {
	if !e.Ready() {
		return nil, ErrNotReady
	}
	a, err := e.store.GetByThread(ctx, guildID, channelID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, transient("look up auction thread", err)
	}
	return e.bids.Place(ctx, KeyOf(a), bidderID, amount)
}

// PlaceBid places a bid on the auction identified by key.
func (e *Engine) PlaceBid(ctx context.Context, key Key, bidderID snowflake.ID, amount int64) (*BidOutcome, error) {
	return e.bids.Place(ctx, key, bidderID, amount)
}

// Close settles or force closes an auction. Closing an absent auction is a no-op.
func (e *Engine) Close(ctx context.Context, key Key, reason CloseReason) error {
	return e.settlement.Close(ctx, key, reason)
}

// ForceRemove removes an auction without settlement on behalf of an owner.
func (e *Engine) ForceRemove(ctx context.Context, key Key) (*models.Auction, error) {
	if !e.Ready() {
		return nil, ErrNotReady
	}
	a, err := e.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, transient("load auction", err)
	}
	if err = e.settlement.Close(ctx, key, ReasonRemoved); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the stored auction.
func (e *Engine) Get(ctx context.Context, key Key) (*models.Auction, error) {
	a, err := e.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, transient("load auction", err)
	}
	return a, nil
}

// List returns the active auctions of a guild ordered by id.
func (e *Engine) List(ctx context.Context, guildID snowflake.ID) ([]*models.Auction, error) {
	auctions, err := e.store.List(ctx, guildID)
	if err != nil {
		return nil, transient("list auctions", err)
	}
	active := auctions[:0]
	for _, a := range auctions {
		if a.State == models.AuctionStateActive {
			active = append(active, a)
		}
	}
	return active, nil
}

// OnDisplayMessageDeleted force closes the auction whose pinned display was deleted.
func (e *Engine) OnDisplayMessageDeleted(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (bool, error) {
	var (
		key   Key
		found bool
	)
	e.handles.Range(func(k Key, h MessageHandle) bool {
		if k.GuildID == guildID && h.MessageID == messageID {
			key = k
			found = true
			return false
		}
		return true
	})
	if !found {
		return false, nil
	}

	slog.Info("Auction display deleted",
		slog.String("type", "auction"),
		slog.String("auction", key.String()),
		slog.String("message_id", messageID.String()))
	return true, e.settlement.Close(ctx, key, ReasonMessageDeleted)
}

// Recover rebuilds timers and caches from the store. guildIDs limits recovery
// to those guilds; nil recovers every guild with stored auctions. The engine
// stays not ready until a run succeeds.
func (e *Engine) Recover(ctx context.Context, guildIDs []snowflake.ID) (RecoveryReport, error) {
	return e.recovery.RecoverAll(ctx, guildIDs)
}

// Shutdown stops all deadline timers. Stored auctions are recovered on the next start.
func (e *Engine) Shutdown() {
	e.ready.Store(false)
	e.scheduler.Shutdown()
}

func (e *Engine) GrantAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error {
	if err := e.roster.SetAuctioneer(ctx, guildID, userID, true); err != nil {
		return transient("grant auctioneer", err)
	}
	return nil
}

func (e *Engine) RevokeAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error {
	if err := e.roster.SetAuctioneer(ctx, guildID, userID, false); err != nil {
		return transient("revoke auctioneer", err)
	}
	return nil
}

func (e *Engine) IsAuctioneer(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (bool, error) {
	ok, err := e.roster.IsAuctioneer(ctx, guildID, userID)
	if err != nil {
		return false, transient("check auctioneer", err)
	}
	return ok, nil
}

// ToggleBank flips the guild bank setting and returns the new value.
func (e *Engine) ToggleBank(ctx context.Context, guildID snowflake.ID) (bool, error) {
	enabled, err := e.settings.ToggleBank(ctx, guildID)
	if err != nil {
		return false, transient("toggle bank", err)
	}
	return enabled, nil
}

func (e *Engine) Balance(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (int64, error) {
	balance, err := e.ledger.Balance(ctx, guildID, userID)
	if err != nil {
		return 0, transient("read balance", err)
	}
	return balance, nil
}

// Handle returns the cached display handle of an auction.
func (e *Engine) Handle(key Key) (MessageHandle, bool) {
	return e.handles.Load(key)
}

func (e *Engine) JumpURL(a *models.Auction) string {
	return e.platform.JumpURL(a)
}

// onDeadline runs on the timer goroutine when an auction deadline passes.
func (e *Engine) onDeadline(key Key) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.CloseTimeout)
	defer cancel()

	err := e.settlement.Close(ctx, key, ReasonExpired)
	if err == nil {
		return
	}

	slog.Error("Failed to close expired auction",
		slog.String("type", "auction"),
		slog.String("auction", key.String()),
		slog.Any("error", err))

	if errors.Is(err, ErrTransient) {
		retryAt := e.now().Add(e.cfg.CloseRetryDelay)
		if armErr := e.scheduler.Arm(key, retryAt, e.onDeadline); armErr != nil && !errors.Is(armErr, ErrAlreadyArmed) {
			slog.Error("Failed to re-arm auction close",
				slog.String("type", "auction"),
				slog.String("auction", key.String()),
				slog.Any("error", armErr))
		}
	}
}

// abandonCreate undoes the id allocation and lock entry of a failed create.
// The id is only handed back while no later id was issued.
func (e *Engine) abandonCreate(ctx context.Context, key Key) {
	e.locks.forget(key)
	if err := e.store.ReleaseAuctionID(ctx, key.GuildID, key.AuctionID); err != nil {
		slog.Warn("Failed to release auction id",
			slog.String("type", "auction"),
			slog.String("auction", key.String()),
			slog.Any("error", err))
	}
}

// release drops every in-memory trace of a closed auction.
func (e *Engine) release(key Key) {
	e.scheduler.Cancel(key)
	e.handles.Delete(key)
	e.locks.forget(key)
}
