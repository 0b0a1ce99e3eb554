package game

import (
	"fmt"
	"time"
)

// Texts shown while a round is running.
const (
	StatusWaiting = "Waiting..."
	HintListen    = "Listen for the sound"
	StatusReady   = "Ready?"
	StatusIdle    = "Press space to start"
)

// FormatSeconds renders d as seconds with millisecond precision, e.g. "3.123".
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// Message returns the status line and the hint line shown for a resolved round.
func (o Outcome) Message() (status, hint string) {
	if o.Success {
		return fmt.Sprintf("Nice jump! (%ss)", FormatSeconds(o.Elapsed)), "Press space to play again"
	}
	hint = "Press space to retry"
	switch o.Reason {
	case ReasonFalseStart:
		status = "False start! Wait for the sound."
	case ReasonTooEarly:
		status = fmt.Sprintf("Too early! Hold on until the ring drops (%ss)", FormatSeconds(o.Elapsed))
	case ReasonTooLate:
		status = fmt.Sprintf("Too late! (%ss)", FormatSeconds(o.Elapsed))
	case ReasonTimeout:
		status = fmt.Sprintf("Time's up! The ring fell (%ss)", FormatSeconds(o.Elapsed))
	default:
		status = string(o.Reason)
	}
	return status, hint
}
