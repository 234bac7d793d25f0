package auction

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// lockTable hands out one mutex per auction key. Every critical section
// re-reads the record, so forgetting a key after close is safe even while
// another goroutine still waits on the old mutex.
type lockTable struct {
	locks *xsync.MapOf[Key, *sync.Mutex]
}

func newLockTable() *lockTable {
	return &lockTable{locks: xsync.NewMapOf[Key, *sync.Mutex]()}
}

func (t *lockTable) lock(key Key) func() {
	mu, _ := t.locks.LoadOrCompute(key, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()
	return mu.Unlock
}

func (t *lockTable) forget(key Key) {
	t.locks.Delete(key)
}

func (t *lockTable) size() int {
	return t.locks.Size()
}
