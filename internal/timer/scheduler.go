package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var ErrInvalidDelay = errors.New("invalid delay")

// Handle identifies one scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler runs one-shot callbacks on a clockwork.Clock.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Scheduler struct {
	clock clockwork.Clock

	mu      sync.Mutex
	seq     uint64
	pending map[Handle]clockwork.Timer
}

func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock, pending: make(map[Handle]clockwork.Timer)}
}

// Schedule arranges for fn to run once after d. A negative d is a programming
// error and returns ErrInvalidDelay.
func (s *Scheduler) Schedule(d time.Duration, fn func()) (Handle, error) {
	if d < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDelay, d)
	}

	// The lock is held across AfterFunc so a zero delay cannot fire before
	// the handle is registered.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	h := Handle(s.seq)
	s.pending[h] = s.clock.AfterFunc(d, func() { s.fire(h, fn) })

	log.Debug().Uint64("handle", uint64(h)).Dur("delay", d).Msg("scheduled one-shot timer")
	return h, nil
}

// Cancel stops a pending callback. It reports whether the callback was
// prevented from running; unknown, fired or already cancelled handles are a no-op.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.pending[h]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.pending, h)
	log.Debug().Uint64("handle", uint64(h)).Msg("cancelled timer")
	return true
}

// Pending returns the number of callbacks that have neither fired nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending callback. The scheduler stays usable.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, t := range s.pending {
		t.Stop()
		delete(s.pending, h)
	}
}

func (s *Scheduler) fire(h Handle, fn func()) {
	s.mu.Lock()
	if _, ok := s.pending[h]; !ok {
		// cancelled between expiry and now
		s.mu.Unlock()
		return
	}
	delete(s.pending, h)
	s.mu.Unlock()

	fn()
}
