package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kiliankoe/ringdrop/internal/timer"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidTiming   = errors.New("invalid timing config")
	ErrRoundInProgress = errors.New("round in progress")
)

// Scheduler is what a Machine needs to arm its pre-cue delay and fall deadline.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (timer.Handle, error)
	Cancel(h timer.Handle) bool
}

// Machine is the timing state machine for one player. It owns exactly one
// live Round; every transition runs under mu and either completes or leaves
// the round untouched.
type Machine struct {
	cfg    TimingConfig
	clock  clockwork.Clock
	sched  Scheduler
	notify Notifier

	mu      sync.Mutex
	rng     *rand.Rand
	round   Round
	pending timer.Handle // zero when nothing is scheduled
}

func NewMachine(cfg TimingConfig, clock clockwork.Clock, sched Scheduler, n Notifier) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if sched == nil {
		sched = timer.NewScheduler(clock)
	}
	if n == nil {
		n = LogNotifier{}
	}
	return &Machine{
		cfg:    cfg,
		clock:  clock,
		sched:  sched,
		notify: n,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		round:  Round{Phase: PhaseIdle},
	}, nil
}

// SetRand replaces the source of pre-cue delays.
func (m *Machine) SetRand(r *rand.Rand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rng = r
}

func (m *Machine) Timing() TimingConfig { return m.cfg }

// Snapshot returns a copy of the live round.
func (m *Machine) Snapshot() Round {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Start arms a new round. It is only legal from Idle or Resolved.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.round.Phase {
	case PhaseArmed, PhaseCueActive:
		return ErrRoundInProgress
	}
	m.armLocked()
	return nil
}

// Trigger feeds one player input into the machine. The same input starts a
// round, jumps during a round and retries after one.
func (m *Machine) Trigger() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.round.Phase {
	case PhaseIdle, PhaseResolved:
		m.armLocked()
	case PhaseArmed:
		m.resolveLocked(Failure(ReasonFalseStart, 0))
	case PhaseCueActive:
		m.resolveLocked(Classify(m.cfg, m.clock.Since(m.round.CueStart)))
	}
}

// Close drops any pending callback and parks the machine in Idle without
// notifying. Trigger or Start may be used again afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
	m.round = Round{Phase: PhaseIdle}
}

func (m *Machine) armLocked() {
	m.cancelPendingLocked()

	delay := m.cfg.MinDelay
	if span := m.cfg.MaxDelay - m.cfg.MinDelay; span > 0 {
		delay += time.Duration(m.rng.Int63n(int64(span) + 1))
	}
	m.round = Round{ID: uuid.NewString(), Phase: PhaseArmed, Delay: delay}

	// h is read by the callback only under mu, after this assignment.
	var h timer.Handle
	h = m.scheduleLocked(delay, func() { m.cueDue(&h) })
	m.pending = h

	log.Debug().Str("round_id", m.round.ID).Dur("delay", delay).Msg("round armed")
	m.notify.RoundArmed(m.snapshotLocked())
}

func (m *Machine) cueDue(h *timer.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.round.Phase != PhaseArmed || m.pending != *h {
		log.Debug().Str("round_id", m.round.ID).Str("phase", string(m.round.Phase)).Msg("ignoring stale cue callback")
		return
	}

	m.round.Phase = PhaseCueActive
	m.round.CueStart = m.clock.Now()

	var deadline timer.Handle
	deadline = m.scheduleLocked(m.cfg.Fall, func() { m.fallDue(&deadline) })
	m.pending = deadline

	log.Debug().Str("round_id", m.round.ID).Msg("cue started")
	m.notify.CueStarted(m.snapshotLocked())
}

func (m *Machine) fallDue(h *timer.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.round.Phase != PhaseCueActive || m.pending != *h {
		log.Debug().Str("round_id", m.round.ID).Str("phase", string(m.round.Phase)).Msg("ignoring stale fall callback")
		return
	}
	m.pending = 0
	m.resolveLocked(Failure(ReasonTimeout, m.clock.Since(m.round.CueStart)))
}

// resolveLocked ends the round. Only the first resolution counts.
func (m *Machine) resolveLocked(o Outcome) {
	if m.round.Phase == PhaseResolved {
		log.Debug().Str("round_id", m.round.ID).Msg("round already resolved")
		return
	}
	m.cancelPendingLocked()
	m.round.Phase = PhaseResolved
	m.round.Outcome = &o

	log.Debug().Str("round_id", m.round.ID).Bool("success", o.Success).Str("reason", string(o.Reason)).Dur("elapsed", o.Elapsed).Msg("round resolved")
	r := m.snapshotLocked()
	if o.Success {
		m.notify.ResolvedSuccess(r, o.Elapsed)
	} else {
		m.notify.ResolvedFailure(r, o.Reason, o.Elapsed)
	}
}

func (m *Machine) scheduleLocked(d time.Duration, fn func()) timer.Handle {
	h, err := m.sched.Schedule(d, fn)
	if err != nil {
		// Validate rules out negative delays, so this is a bug.
		panic(fmt.Errorf("schedule %s for round %s: %w", d, m.round.ID, err))
	}
	return h
}

func (m *Machine) cancelPendingLocked() {
	if m.pending == 0 {
		return
	}
	m.sched.Cancel(m.pending)
	m.pending = 0
}

func (m *Machine) snapshotLocked() Round {
	r := m.round
	if r.Outcome != nil {
		o := *r.Outcome
		r.Outcome = &o
	}
	return r
}
