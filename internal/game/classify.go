package game

import "time"

// Classify turns the time between cue start and the player's jump into an
// outcome. Both window bounds are inclusive.
func Classify(cfg TimingConfig, elapsed time.Duration) Outcome {
	switch {
	case elapsed < cfg.WindowStart:
		return Failure(ReasonTooEarly, elapsed)
	case elapsed <= cfg.WindowEnd:
		return Success(elapsed)
	default:
		// normally preempted by the fall deadline
		return Failure(ReasonTooLate, elapsed)
	}
}
