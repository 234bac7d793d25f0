package auction

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockTableSerializesPerKey(t *testing.T) {
	locks := newLockTable()
	key := Key{GuildID: 1, AuctionID: 1}

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(key)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 1, locks.size())

	locks.forget(key)
	assert.Equal(t, 0, locks.size())
}

func TestLockTableKeysAreIndependent(t *testing.T) {
	locks := newLockTable()
	unlockA := locks.lock(Key{GuildID: 1, AuctionID: 1})
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.lock(Key{GuildID: 1, AuctionID: 2})
		unlock()
		close(done)
	}()
	<-done
	assert.Equal(t, 2, locks.size())
}

func TestCreateParamsValidate(t *testing.T) {
	quick := int64(5)
	tests := []struct {
		name    string
		params  CreateParams
		wantErr bool
	}{
		{name: "valid", params: CreateParams{Name: "Sword", TimePeriod: 60e9, MinBid: 1}},
		{name: "empty name", params: CreateParams{Name: "  ", TimePeriod: 60e9, MinBid: 1}, wantErr: true},
		{name: "zero period", params: CreateParams{Name: "Sword", MinBid: 1}, wantErr: true},
		{name: "zero min bid", params: CreateParams{Name: "Sword", TimePeriod: 60e9}, wantErr: true},
		{name: "quick sell below min bid", params: CreateParams{Name: "Sword", TimePeriod: 60e9, MinBid: 10, QuickSold: &quick}, wantErr: true},
		{name: "min bid over cap", params: CreateParams{Name: "Sword", TimePeriod: 60e9, MinBid: 2000}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(1000)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
