package game

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseIdle      Phase = "Idle"
	PhaseArmed     Phase = "Armed"
	PhaseCueActive Phase = "CueActive"
	PhaseResolved  Phase = "Resolved"
)

// Reason explains a failed round.
type Reason string

const (
	ReasonFalseStart Reason = "FalseStart"
	ReasonTooEarly   Reason = "TooEarly"
	ReasonTooLate    Reason = "TooLate"
	ReasonTimeout    Reason = "Timeout"
)

// Timed reports whether an elapsed time is measured for this reason.
// A false start happens before the cue, so there is nothing to measure.
func (r Reason) Timed() bool {
	return r != ReasonFalseStart
}

type Outcome struct {
	Success bool          `json:"success"`
	Reason  Reason        `json:"reason,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

func Success(elapsed time.Duration) Outcome {
	return Outcome{Success: true, Elapsed: elapsed}
}

func Failure(reason Reason, elapsed time.Duration) Outcome {
	if !reason.Timed() {
		elapsed = 0
	}
	return Outcome{Reason: reason, Elapsed: elapsed}
}

// Round is the single live game round owned by a Machine.
type Round struct {
	ID       string        `json:"id"`
	Phase    Phase         `json:"phase"`
	Delay    time.Duration `json:"delay"`
	CueStart time.Time     `json:"cueStart"` // zero until CueActive
	Outcome  *Outcome      `json:"outcome,omitempty"`
}

// TimingConfig holds the fixed timings of a session.
type TimingConfig struct {
	Fall        time.Duration // cue start to ring fall
	WindowStart time.Duration // first successful elapsed time, inclusive
	WindowEnd   time.Duration // last successful elapsed time, inclusive
	MinDelay    time.Duration // pre-cue delay bounds, inclusive
	MaxDelay    time.Duration
}

func DefaultTiming() TimingConfig {
	return TimingConfig{
		Fall:        3300 * time.Millisecond,
		WindowStart: 3000 * time.Millisecond,
		WindowEnd:   3300 * time.Millisecond,
		MinDelay:    1000 * time.Millisecond,
		MaxDelay:    4000 * time.Millisecond,
	}
}

func (c TimingConfig) Validate() error {
	switch {
	case c.WindowStart <= 0:
		return fmt.Errorf("%w: window start %s must be positive", ErrInvalidTiming, c.WindowStart)
	case c.WindowStart > c.WindowEnd:
		return fmt.Errorf("%w: window start %s after window end %s", ErrInvalidTiming, c.WindowStart, c.WindowEnd)
	case c.WindowEnd > c.Fall:
		return fmt.Errorf("%w: window end %s after fall %s", ErrInvalidTiming, c.WindowEnd, c.Fall)
	case c.MinDelay < 0:
		return fmt.Errorf("%w: negative min delay %s", ErrInvalidTiming, c.MinDelay)
	case c.MinDelay > c.MaxDelay:
		return fmt.Errorf("%w: min delay %s above max delay %s", ErrInvalidTiming, c.MinDelay, c.MaxDelay)
	}
	return nil
}
