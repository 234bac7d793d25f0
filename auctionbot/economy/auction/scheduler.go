package auction

import (
	"log/slog"
	"sync"
	"time"
)

type scheduledTimer struct {
	gen    uint64
	timer  *time.Timer
	fireAt time.Time
}

// Scheduler keeps at most one pending deadline timer per auction. Every arm
// gets a fresh generation so a timer that fires after being replaced is
// ignored.
type Scheduler struct {
	mu       sync.Mutex
	timers   map[Key]*scheduledTimer
	gen      uint64
	now      func() time.Time
	shutdown bool
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		timers: make(map[Key]*scheduledTimer),
		now:    now,
	}
}

// Arm schedules fn(key) at fireAt. A deadline in the past fires immediately.
func (s *Scheduler) Arm(key Key, fireAt time.Time, fn func(Key)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[key]; ok {
		return ErrAlreadyArmed
	}
	s.armLocked(key, fireAt, fn)
	return nil
}

// Reschedule replaces any pending timer for key.
func (s *Scheduler) Reschedule(key Key, fireAt time.Time, fn func(Key)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(key)
	s.armLocked(key, fireAt, fn)
}

// Cancel stops the pending timer for key and reports whether one existed.
func (s *Scheduler) Cancel(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

// Pending returns the deadline currently armed for key.
func (s *Scheduler) Pending(key Key) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[key]
	if !ok {
		return time.Time{}, false
	}
	return t.fireAt, true
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Shutdown stops every pending timer. Later arms are dropped.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.timers {
		s.cancelLocked(key)
	}
	s.shutdown = true
	slog.Info("Auction scheduler stopped", slog.String("type", "auction"))
}

func (s *Scheduler) armLocked(key Key, fireAt time.Time, fn func(Key)) {
	if s.shutdown {
		return
	}
	s.gen++
	gen := s.gen

	delay := fireAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.timers[key] = &scheduledTimer{
		gen:    gen,
		fireAt: fireAt,
		timer: time.AfterFunc(delay, func() {
			s.fire(key, gen, fn)
		}),
	}
}

func (s *Scheduler) cancelLocked(key Key) bool {
	t, ok := s.timers[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.timers, key)
	return true
}

func (s *Scheduler) fire(key Key, gen uint64, fn func(Key)) {
	s.mu.Lock()
	t, ok := s.timers[key]
	if !ok || t.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	s.mu.Unlock()

	fn(key)
}
