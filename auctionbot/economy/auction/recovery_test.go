package auction_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/disgoorg/auction-bot/auctionbot/database/models"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	"github.com/disgoorg/auction-bot/auctionbot/economy/auction/mock"
)

const guildID = snowflake.ID(42)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func storedAuction(id int64, endTime time.Time) *models.Auction {
	return &models.Auction{
		GuildID:   guildID,
		AuctionID: id,
		HostID:    snowflake.ID(1),
		HostName:  "host",
		State:     models.AuctionStateActive,
		Name:      "Relic",
		ChannelID: snowflake.ID(7),
		ThreadID:  snowflake.ID(500 + id),
		MessageID: snowflake.ID(900 + id),
		MinBid:    1,
		EndTime:   endTime,
	}
}

// allowSideEffects accepts every display and notification call and counts
// the direct messages sent.
func allowSideEffects(platform *mock.MockPlatform) *atomic.Int32 {
	var notified atomic.Int32
	platform.EXPECT().FinalizeDisplay(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	platform.EXPECT().ArchiveThread(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	platform.EXPECT().MarkRemoved(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	platform.EXPECT().UpdateDisplay(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	platform.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, snowflake.ID, auction.Notification) error {
			notified.Add(1)
			return nil
		}).AnyTimes()
	platform.EXPECT().JumpURL(gomock.Any()).Return("https://discord.com/channels/1/2/3").AnyTimes()
	return &notified
}

func TestRecoverRestoresDropsAndFires(t *testing.T) {
	ctrl := gomock.NewController(t)
	platform := mock.NewMockPlatform(ctrl)
	notified := allowSideEffects(platform)

	rig := auction.NewTestRig(t, platform)

	future := storedAuction(1, epoch.Add(time.Hour))
	missing := storedAuction(2, epoch.Add(time.Hour))
	overdue := storedAuction(3, epoch.Add(-time.Minute))
	for _, a := range []*models.Auction{future, missing, overdue} {
		rig.Store.Put(a)
	}

	platform.EXPECT().ResolveMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a *models.Auction) (auction.MessageHandle, error) {
			if a.AuctionID == missing.AuctionID {
				return auction.MessageHandle{}, auction.ErrUnresolvable
			}
			return auction.MessageHandle{ChannelID: a.ThreadID, MessageID: a.MessageID}, nil
		}).Times(3)

	report, err := rig.Engine.Recover(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, rig.Engine.Ready())
	assert.Equal(t, 1, report.Guilds)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 2, report.Restored)

	_, err = rig.Store.Get(context.Background(), auction.KeyOf(missing))
	assert.ErrorIs(t, err, auction.ErrNotFound)

	pending, ok := rig.Engine.Scheduler().Pending(auction.KeyOf(future))
	require.True(t, ok)
	assert.Equal(t, future.EndTime, pending)
	handle, ok := rig.Engine.Handle(auction.KeyOf(future))
	require.True(t, ok)
	assert.Equal(t, future.MessageID, handle.MessageID)

	assert.Eventually(t, func() bool {
		_, err := rig.Store.Get(context.Background(), auction.KeyOf(overdue))
		return err != nil
	}, 2*time.Second, 10*time.Millisecond, "an overdue auction closes right after recovery")
	assert.Eventually(t, func() bool { return notified.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRecoverRejectsCommandsUntilDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	platform := mock.NewMockPlatform(ctrl)
	allowSideEffects(platform)

	rig := auction.NewTestRig(t, platform)
	a := storedAuction(1, epoch.Add(time.Hour))
	rig.Store.Put(a)

	entered := make(chan struct{})
	release := make(chan struct{})
	platform.EXPECT().ResolveMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a *models.Auction) (auction.MessageHandle, error) {
			close(entered)
			<-release
			return auction.MessageHandle{ChannelID: a.ThreadID, MessageID: a.MessageID}, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := rig.Engine.Recover(context.Background(), nil)
		done <- err
	}()

	<-entered
	_, err := rig.Engine.PlaceBid(context.Background(), auction.KeyOf(a), snowflake.ID(100), 10)
	assert.ErrorIs(t, err, auction.ErrNotReady)
	_, err = rig.Engine.Create(context.Background(), auction.CreateParams{
		GuildID: guildID, ChannelID: 7, HostID: 1, Name: "x", TimePeriod: time.Minute, MinBid: 1,
	})
	assert.ErrorIs(t, err, auction.ErrNotReady)
	_, err = rig.Engine.ForceRemove(context.Background(), auction.KeyOf(a))
	assert.ErrorIs(t, err, auction.ErrNotReady)

	close(release)
	require.NoError(t, <-done)

	out, err := rig.Engine.PlaceBid(context.Background(), auction.KeyOf(a), snowflake.ID(100), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), *out.Auction.CurrentBid)
}

func TestRecoverFinishesInterruptedClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	platform := mock.NewMockPlatform(ctrl)
	notified := allowSideEffects(platform)

	rig := auction.NewTestRig(t, platform)
	rig.EnableBank()
	closed := storedAuction(4, epoch.Add(-time.Hour))
	closed.State = models.AuctionStateClosed
	bid := int64(90)
	bidder := snowflake.ID(100)
	closed.CurrentBid = &bid
	closed.CurrentBidder = &bidder
	rig.Store.Put(closed)

	report, err := rig.Engine.Recover(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Finished)
	assert.Equal(t, 0, rig.Store.Len())
	assert.Equal(t, int64(0), rig.Ledger.Get(guildID, closed.HostID), "settled funds are not paid again")
	assert.Eventually(t, func() bool { return notified.Load() == 2 }, time.Second, 10*time.Millisecond)
}

func TestRecoverStaysNotReadyUntilStoreRecovers(t *testing.T) {
	tests := []struct {
		name     string
		guildIDs []snowflake.ID
	}{
		{name: "guild listing fails", guildIDs: nil},
		{name: "guild auctions fail", guildIDs: []snowflake.ID{guildID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := auction.NewTestRig(t, nil)
			overdue := storedAuction(1, epoch.Add(-time.Minute))
			key := auction.KeyOf(overdue)
			rig.Store.Put(overdue)
			rig.Store.FailList = 1
			ctx := context.Background()

			_, err := rig.Engine.Recover(ctx, tt.guildIDs)
			require.ErrorIs(t, err, auction.ErrTransient)
			assert.False(t, rig.Engine.Ready())
			_, ok := rig.Engine.Scheduler().Pending(key)
			assert.False(t, ok)
			_, err = rig.Engine.PlaceBid(ctx, key, snowflake.ID(100), 10)
			assert.ErrorIs(t, err, auction.ErrNotReady)

			report, err := rig.Engine.Recover(ctx, tt.guildIDs)
			require.NoError(t, err)
			assert.True(t, rig.Engine.Ready())
			assert.Equal(t, 1, report.Restored)
			assert.Eventually(t, func() bool {
				return rig.Store.Len() == 0
			}, 2*time.Second, 10*time.Millisecond, "the overdue auction closes once recovery succeeds")
		})
	}
}

func TestRecoverKeepsStoredHandleWhenResolveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	platform := mock.NewMockPlatform(ctrl)
	allowSideEffects(platform)

	rig := auction.NewTestRig(t, platform)
	a := storedAuction(1, epoch.Add(time.Hour))
	key := auction.KeyOf(a)
	rig.Store.Put(a)
	ctx := context.Background()

	platform.EXPECT().ResolveMessage(gomock.Any(), gomock.Any()).
		Return(auction.MessageHandle{}, errors.New("503 Service Unavailable"))

	report, err := rig.Engine.Recover(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Restored)
	handle, ok := rig.Engine.Handle(key)
	require.True(t, ok)
	assert.Equal(t, a.MessageID, handle.MessageID)
	assert.Equal(t, a.ThreadID, handle.ChannelID)

	found, err := rig.Engine.OnDisplayMessageDeleted(ctx, guildID, a.MessageID)
	require.NoError(t, err)
	assert.True(t, found)
	_, err = rig.Store.Get(ctx, key)
	assert.ErrorIs(t, err, auction.ErrNotFound)
	_, ok = rig.Engine.Scheduler().Pending(key)
	assert.False(t, ok)
}
