package auction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// BidProcessor validates and applies bids. All work on one auction runs under
// that auction's lock, so bids and closes never interleave.
type BidProcessor struct {
	engine *Engine
}

// Place validates amount against the auction and applies it. Validation
// order is: auction exists, amount beats the current or minimum bid, amount
// is within the cap, bidder can afford it.
func (p *BidProcessor) Place(ctx context.Context, key Key, bidderID snowflake.ID, amount int64) (*BidOutcome, error) {
	e := p.engine
	if !e.Ready() {
		return nil, ErrNotReady
	}

	start := time.Now()
	unlock := e.locks.lock(key)
	outcome, closed, err := p.placeLocked(ctx, key, bidderID, amount)
	unlock()
	if err != nil {
		return nil, err
	}

	if closed != nil {
		e.settlement.afterClose(closed)
	}
	if prev := outcome.PreviousBidder; prev != nil && *prev != bidderID {
		go e.notifier.outbid(outcome.Auction, *prev, amount)
	}

	slog.Info("Bid placed",
		slog.String("type", "auction"),
		slog.String("guild_id", key.GuildID.String()),
		slog.Int64("auction_id", key.AuctionID),
		slog.String("bidder_id", bidderID.String()),
		slog.Int64("amount", amount),
		slog.Bool("extended", outcome.Extended),
		slog.Bool("sold", outcome.Sold),
		slog.Duration("took", time.Since(start)))
	return outcome, nil
}

func (p *BidProcessor) placeLocked(ctx context.Context, key Key, bidderID snowflake.ID, amount int64) (*BidOutcome, *closeResult, error) {
	e := p.engine

	a, err := e.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, transient("load auction", err)
	}
	if a.State != models.AuctionStateActive {
		return nil, nil, ErrNotFound
	}

	if (a.CurrentBid != nil && amount <= *a.CurrentBid) || amount < a.MinBid {
		return nil, nil, &BidRejection{Reason: ErrBidTooLow, Amount: amount, CurrentBid: a.CurrentBid, MinBid: a.MinBid}
	}
	if amount > e.cfg.MaxBid {
		return nil, nil, &BidRejection{Reason: ErrBidOverflow, Amount: amount, CurrentBid: a.CurrentBid, MinBid: a.MinBid}
	}

	useBank, err := e.settings.UseBank(ctx, key.GuildID)
	if err != nil {
		return nil, nil, transient("read bank setting", err)
	}
	if useBank {
		balance, err := e.ledger.Balance(ctx, key.GuildID, bidderID)
		if err != nil {
			return nil, nil, transient("read balance", err)
		}
		if balance < amount {
			return nil, nil, &BidRejection{Reason: ErrInsufficientFunds, Amount: amount, CurrentBid: a.CurrentBid, MinBid: a.MinBid, Balance: balance}
		}
		if err = e.ledger.Withdraw(ctx, key.GuildID, bidderID, amount); err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				return nil, nil, &BidRejection{Reason: ErrInsufficientFunds, Amount: amount, CurrentBid: a.CurrentBid, MinBid: a.MinBid, Balance: balance}
			}
			return nil, nil, transient("withdraw bid", err)
		}
	}

	prevBid, prevBidder := a.CurrentBid, a.CurrentBidder
	now := e.now()

	updated := a.Clone()
	updated.CurrentBid = &amount
	updated.CurrentBidder = &bidderID
	updated.UpdatedAt = now

	extended := false
	if updated.EndTime.Sub(now) <= e.cfg.AntiSnipeWindow {
		updated.EndTime = updated.EndTime.Add(e.cfg.AntiSnipeExtension)
		extended = true
	}

	if err = e.store.Update(ctx, updated); err != nil {
		if useBank {
			p.compensate(ctx, key, bidderID, amount)
		}
		return nil, nil, transient("save bid", err)
	}

	if useBank && prevBid != nil && prevBidder != nil {
		refund := *prevBid
		bidder := *prevBidder
		if err = retry(ctx, "refund previous bid", func(ctx context.Context) error {
			return e.ledger.Deposit(ctx, key.GuildID, bidder, refund)
		}); err != nil {
			slog.Error("Failed to refund outbid bidder",
				slog.String("type", "auction"),
				slog.String("auction", key.String()),
				slog.String("user_id", bidder.String()),
				slog.Int64("amount", refund),
				slog.Any("error", err))
		}
	}

	if extended {
		e.scheduler.Reschedule(key, updated.EndTime, e.onDeadline)
	}

	outcome := &BidOutcome{
		Auction:        updated.Clone(),
		Amount:         amount,
		PreviousBid:    prevBid,
		PreviousBidder: prevBidder,
		Extended:       extended,
	}

	if updated.QuickSold != nil && amount >= *updated.QuickSold {
		closed, err := e.settlement.closeLocked(ctx, key, ReasonQuickSold)
		if err != nil {
			slog.Error("Failed to close quick sold auction",
				slog.String("type", "auction"),
				slog.String("auction", key.String()),
				slog.Any("error", err))
			e.scheduler.Reschedule(key, now.Add(e.cfg.CloseRetryDelay), e.onDeadline)
			return outcome, nil, nil
		}
		outcome.Sold = true
		return outcome, closed, nil
	}

	if err = e.platform.UpdateDisplay(ctx, updated); err != nil {
		slog.Warn("Failed to update auction display",
			slog.String("type", "auction"),
			slog.String("auction", key.String()),
			slog.Any("error", err))
	}
	return outcome, nil, nil
}

// compensate returns a withdrawn bid after the record could not be saved.
func (p *BidProcessor) compensate(ctx context.Context, key Key, bidderID snowflake.ID, amount int64) {
	err := retry(ctx, "return unsaved bid", func(ctx context.Context) error {
		return p.engine.ledger.Deposit(ctx, key.GuildID, bidderID, amount)
	})
	if err != nil {
		slog.Error("Failed to return withdrawn bid",
			slog.String("type", "auction"),
			slog.String("auction", key.String()),
			slog.String("user_id", bidderID.String()),
			slog.Int64("amount", amount),
			slog.Any("error", err))
	}
}
