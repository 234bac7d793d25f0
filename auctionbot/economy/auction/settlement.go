package auction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// SettlementService closes auctions. A close first persists the terminal
// state, then performs the payout or refund, then deletes the record. A
// retried close that finds a terminal record only finishes the deletion, so
// money moves at most once.
type SettlementService struct {
	engine *Engine
}

type closeResult struct {
	auction  *models.Auction
	reason   CloseReason
	refunded bool
}

// Close settles the auction under its lock. Closing an absent auction is a no-op.
func (s *SettlementService) Close(ctx context.Context, key Key, reason CloseReason) error {
	unlock := s.engine.locks.lock(key)
	res, err := s.closeLocked(ctx, key, reason)
	unlock()
	if err != nil {
		return err
	}
	if res != nil {
		s.afterClose(res)
	}
	return nil
}

func (s *SettlementService) closeLocked(ctx context.Context, key Key, reason CloseReason) (*closeResult, error) {
	e := s.engine
	start := time.Now()

	a, err := e.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.release(key)
			return nil, nil
		}
		return nil, transient("load auction", err)
	}

	res := &closeResult{auction: a, reason: reason}
	switch a.State {
	case models.AuctionStateActive, models.AuctionStateDraft:
		if reason == ReasonExpired && !due(a, e.now()) {
			// Timer fired ahead of the engine clock; keep one armed.
			if err := e.scheduler.Arm(key, a.EndTime, e.onDeadline); err != nil && !errors.Is(err, ErrAlreadyArmed) {
				return nil, err
			}
			return nil, nil
		}
		if res, err = s.settle(ctx, a, reason); err != nil {
			return nil, err
		}
	case models.AuctionStateCancelled:
		res.reason = ReasonRemoved
	}

	err = retry(ctx, "delete auction", func(ctx context.Context) error {
		err := e.store.Delete(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, transient("delete closed auction", err)
	}
	e.release(key)

	slog.Info("Auction closed",
		slog.String("type", "auction"),
		slog.String("status", res.reason.String()),
		slog.String("guild_id", key.GuildID.String()),
		slog.Int64("auction_id", key.AuctionID),
		slog.Bool("sold", !res.reason.Forced() && res.auction.HasBid()),
		slog.Duration("took", time.Since(start)))
	return res, nil
}

// settle persists the terminal state and moves money exactly once.
func (s *SettlementService) settle(ctx context.Context, a *models.Auction, reason CloseReason) (*closeResult, error) {
	e := s.engine
	key := KeyOf(a)

	useBank, err := e.settings.UseBank(ctx, key.GuildID)
	if err != nil {
		return nil, transient("read bank setting", err)
	}

	closed := a.Clone()
	closed.UpdatedAt = e.now()
	closed.State = models.AuctionStateClosed
	if reason.Forced() {
		closed.State = models.AuctionStateCancelled
	}
	if err = e.store.Update(ctx, closed); err != nil {
		return nil, transient("mark auction closed", err)
	}

	res := &closeResult{auction: closed, reason: reason}
	if reason.Forced() {
		if reason == ReasonRemoved {
			s.bestEffort("mark display removed", key, func() error { return e.platform.MarkRemoved(ctx, closed) })
		}
		if useBank && closed.HasBid() {
			res.refunded = s.pay(ctx, closed, *closed.CurrentBidder, "refund removed auction bid")
		}
		s.storeReceipt(ctx, closed, reason, useBank)
		return res, nil
	}

	s.bestEffort("finalize display", key, func() error { return e.platform.FinalizeDisplay(ctx, closed) })
	s.bestEffort("archive thread", key, func() error { return e.platform.ArchiveThread(ctx, closed) })
	if useBank && closed.HasBid() {
		s.pay(ctx, closed, closed.HostID, "pay auction host")
	}
	s.storeReceipt(ctx, closed, reason, useBank)
	return res, nil
}

func (s *SettlementService) pay(ctx context.Context, a *models.Auction, target snowflake.ID, op string) bool {
	e := s.engine
	key := KeyOf(a)
	amount := *a.CurrentBid

	err := retry(ctx, op, func(ctx context.Context) error {
		return e.ledger.Deposit(ctx, key.GuildID, target, amount)
	})
	if err != nil {
		slog.Error("Failed to settle auction funds",
			slog.String("type", "auction"),
			slog.String("operation", op),
			slog.String("auction", key.String()),
			slog.String("user_id", target.String()),
			slog.Int64("amount", amount),
			slog.Any("error", err))
		return false
	}
	return true
}

func (s *SettlementService) storeReceipt(ctx context.Context, a *models.Auction, reason CloseReason, useBank bool) {
	e := s.engine
	if e.receipts == nil {
		return
	}
	receipt := Receipt{
		GuildID:   a.GuildID,
		AuctionID: a.AuctionID,
		Name:      a.Name,
		HostID:    a.HostID,
		WinnerID:  a.CurrentBidder,
		Amount:    a.CurrentBid,
		Reason:    reason.String(),
		UsedBank:  useBank,
		ClosedAt:  e.now(),
	}
	s.bestEffort("store receipt", KeyOf(a), func() error { return e.receipts.StoreReceipt(ctx, receipt) })
}

func (s *SettlementService) bestEffort(op string, key Key, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("Auction side effect failed",
			slog.String("type", "auction"),
			slog.String("operation", op),
			slog.String("auction", key.String()),
			slog.Any("error", err))
	}
}

// afterClose sends direct messages once the auction lock is released.
func (s *SettlementService) afterClose(res *closeResult) {
	n := s.engine.notifier
	if res.reason.Forced() {
		go n.removed(res.auction, res.refunded)
		return
	}
	go n.closed(res.auction)
}

// due reports whether an open auction should close now: its deadline passed
// or its current bid reached the quick sell price.
func due(a *models.Auction, now time.Time) bool {
	if !now.Before(a.EndTime) {
		return true
	}
	return a.QuickSold != nil && a.CurrentBid != nil && *a.CurrentBid >= *a.QuickSold
}
