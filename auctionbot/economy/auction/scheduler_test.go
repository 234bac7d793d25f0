package auction

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresPastDeadlineImmediately(t *testing.T) {
	s := NewScheduler(nil)
	fired := make(chan Key, 1)
	key := Key{GuildID: 1, AuctionID: 1}

	require.NoError(t, s.Arm(key, time.Now().Add(-time.Hour), func(k Key) { fired <- k }))

	select {
	case k := <-fired:
		assert.Equal(t, key, k)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerArmTwiceFails(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Shutdown()
	key := Key{GuildID: 1, AuctionID: 2}

	require.NoError(t, s.Arm(key, time.Now().Add(time.Hour), func(Key) {}))
	assert.ErrorIs(t, s.Arm(key, time.Now().Add(time.Hour), func(Key) {}), ErrAlreadyArmed)
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerRescheduleReplacesTimer(t *testing.T) {
	s := NewScheduler(nil)
	defer s.Shutdown()
	key := Key{GuildID: 1, AuctionID: 3}

	var calls atomic.Int32
	fired := make(chan struct{}, 2)
	fn := func(Key) {
		calls.Add(1)
		fired <- struct{}{}
	}

	require.NoError(t, s.Arm(key, time.Now().Add(20*time.Millisecond), fn))
	later := time.Now().Add(80 * time.Millisecond)
	s.Reschedule(key, later, fn)

	at, ok := s.Pending(key)
	require.True(t, ok)
	assert.Equal(t, later, at)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("rescheduled timer did not fire")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(nil)
	key := Key{GuildID: 1, AuctionID: 4}

	var calls atomic.Int32
	require.NoError(t, s.Arm(key, time.Now().Add(20*time.Millisecond), func(Key) { calls.Add(1) }))
	assert.True(t, s.Cancel(key))
	assert.False(t, s.Cancel(key))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	_, ok := s.Pending(key)
	assert.False(t, ok)
}

func TestSchedulerShutdownStopsEverything(t *testing.T) {
	s := NewScheduler(nil)
	var calls atomic.Int32
	for i := int64(0); i < 5; i++ {
		require.NoError(t, s.Arm(Key{GuildID: 1, AuctionID: i}, time.Now().Add(20*time.Millisecond), func(Key) { calls.Add(1) }))
	}

	s.Shutdown()
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Arm(Key{GuildID: 1, AuctionID: 9}, time.Now(), func(Key) { calls.Add(1) }))
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
