package game

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier is the presentation side of a Machine. Each lifecycle event is
// delivered exactly once, while the machine's lock is held, so
// implementations must not call back into the Machine synchronously.
type Notifier interface {
	RoundArmed(r Round)
	CueStarted(r Round)
	ResolvedSuccess(r Round, elapsed time.Duration)
	// elapsed is zero when !reason.Timed()
	ResolvedFailure(r Round, reason Reason, elapsed time.Duration)
}

type multi []Notifier

// Multi fans every event out to ns in order.
func Multi(ns ...Notifier) Notifier {
	return multi(ns)
}

func (m multi) RoundArmed(r Round) {
	for _, n := range m {
		n.RoundArmed(r)
	}
}

func (m multi) CueStarted(r Round) {
	for _, n := range m {
		n.CueStarted(r)
	}
}

func (m multi) ResolvedSuccess(r Round, elapsed time.Duration) {
	for _, n := range m {
		n.ResolvedSuccess(r, elapsed)
	}
}

func (m multi) ResolvedFailure(r Round, reason Reason, elapsed time.Duration) {
	for _, n := range m {
		n.ResolvedFailure(r, reason, elapsed)
	}
}

// LogNotifier writes every lifecycle event to the global zerolog logger.
type LogNotifier struct{}

func (LogNotifier) RoundArmed(r Round) {
	log.Info().Str("round_id", r.ID).Dur("delay", r.Delay).Msg("round armed")
}

func (LogNotifier) CueStarted(r Round) {
	log.Info().Str("round_id", r.ID).Time("cue_start", r.CueStart).Msg("cue started")
}

func (LogNotifier) ResolvedSuccess(r Round, elapsed time.Duration) {
	log.Info().Str("round_id", r.ID).Str("elapsed", FormatSeconds(elapsed)).Msg("round won")
}

func (LogNotifier) ResolvedFailure(r Round, reason Reason, elapsed time.Duration) {
	ev := log.Info().Str("round_id", r.ID).Str("reason", string(reason))
	if reason.Timed() {
		ev = ev.Str("elapsed", FormatSeconds(elapsed))
	}
	ev.Msg("round lost")
}
