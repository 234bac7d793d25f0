package auction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
)

// RecoveryReport summarizes one recovery run.
type RecoveryReport struct {
	Guilds   int
	Restored int
	Dropped  int
	Finished int
	Took     time.Duration
}

// RecoveryManager rebuilds in-memory state from the store after a restart.
// The engine rejects commands until a run completes without errors.
type RecoveryManager struct {
	engine *Engine
}

func (r *RecoveryManager) RecoverAll(ctx context.Context, guildIDs []snowflake.ID) (RecoveryReport, error) {
	e := r.engine
	start := time.Now()

	e.ready.Store(false)

	var report RecoveryReport
	if guildIDs == nil {
		var err error
		if guildIDs, err = e.store.ListGuilds(ctx); err != nil {
			return report, transient("list auction guilds", err)
		}
	}

	var errs []error
	for _, guildID := range guildIDs {
		if err := r.recoverGuild(ctx, guildID, &report); err != nil {
			slog.Error("Failed to recover guild auctions",
				slog.String("type", "auction"),
				slog.String("guild_id", guildID.String()),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		report.Guilds++
	}
	report.Took = time.Since(start)

	slog.Info("Auction recovery finished",
		slog.String("type", "auction"),
		slog.Int("guilds", report.Guilds),
		slog.Int("restored", report.Restored),
		slog.Int("dropped", report.Dropped),
		slog.Int("finished", report.Finished),
		slog.Duration("took", report.Took))
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	e.ready.Store(true)
	return report, nil
}

func (r *RecoveryManager) recoverGuild(ctx context.Context, guildID snowflake.ID, report *RecoveryReport) error {
	e := r.engine

	auctions, err := e.store.List(ctx, guildID)
	if err != nil {
		return transient("list guild auctions", err)
	}

	type resolution struct {
		handle       MessageHandle
		resolved     bool
		unresolvable bool
	}
	results := make([]resolution, len(auctions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.RecoveryParallelism)
	for i, a := range auctions {
		if a.State != models.AuctionStateActive {
			continue
		}
		g.Go(func() error {
			handle, err := e.platform.ResolveMessage(gctx, a)
			switch {
			case err == nil:
				results[i] = resolution{handle: handle, resolved: true}
			case errors.Is(err, ErrUnresolvable):
				results[i] = resolution{unresolvable: true}
			default:
				slog.Warn("Failed to resolve auction display, keeping auction",
					slog.String("type", "auction"),
					slog.String("auction", KeyOf(a).String()),
					slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, a := range auctions {
		key := KeyOf(a)
		switch {
		case a.State != models.AuctionStateActive:
			// A close that stopped before deleting the record.
			if err := e.Close(ctx, key, ReasonExpired); err != nil {
				slog.Error("Failed to finish interrupted close",
					slog.String("type", "auction"),
					slog.String("auction", key.String()),
					slog.Any("error", err))
				continue
			}
			report.Finished++
		case results[i].unresolvable:
			// Same outcome as a deleted display: no payout, held bid refunded.
			if err := e.Close(ctx, key, ReasonMessageDeleted); err != nil {
				slog.Error("Failed to drop unresolvable auction",
					slog.String("type", "auction"),
					slog.String("auction", key.String()),
					slog.Any("error", err))
				continue
			}
			report.Dropped++
			slog.Info("Dropped auction with missing display",
				slog.String("type", "auction"),
				slog.String("guild_id", guildID.String()),
				slog.Int64("auction_id", a.AuctionID))
		default:
			handle := MessageHandle{ChannelID: a.ThreadID, MessageID: a.MessageID}
			if results[i].resolved {
				handle = results[i].handle
			}
			e.handles.Store(key, handle)
			e.scheduler.Reschedule(key, a.EndTime, e.onDeadline)
			report.Restored++
		}
	}
	return nil
}
