package ws

import (
	"time"

	"github.com/kiliankoe/ringdrop/internal/game"
)

// notifier turns machine events into socket events for one connection.
type notifier struct {
	e      emitter
	timing game.TimingConfig
}

func (n *notifier) RoundArmed(r game.Round) {
	n.e.Emit("round:armed", map[string]any{
		"roundId": r.ID,
		"phase":   string(r.Phase),
		"status":  game.StatusWaiting,
		"sub":     game.HintListen,
	})
}

func (n *notifier) CueStarted(r game.Round) {
	n.e.Emit("cue:started", map[string]any{
		"roundId":       r.ID,
		"phase":         string(r.Phase),
		"status":        game.StatusReady,
		"fallMs":        millis(n.timing.Fall),
		"windowStartMs": millis(n.timing.WindowStart),
	})
}

func (n *notifier) ResolvedSuccess(r game.Round, elapsed time.Duration) {
	n.e.Emit("round:resolved", resolvedPayload(r, game.Success(elapsed)))
}

func (n *notifier) ResolvedFailure(r game.Round, reason game.Reason, elapsed time.Duration) {
	n.e.Emit("round:resolved", resolvedPayload(r, game.Failure(reason, elapsed)))
}

func resolvedPayload(r game.Round, o game.Outcome) map[string]any {
	status, sub := o.Message()
	p := map[string]any{
		"roundId": r.ID,
		"phase":   string(r.Phase),
		"success": o.Success,
		"status":  status,
		"sub":     sub,
	}
	if !o.Success {
		p["reason"] = string(o.Reason)
	}
	if o.Success || o.Reason.Timed() {
		p["elapsedMs"] = millis(o.Elapsed)
		p["elapsed"] = game.FormatSeconds(o.Elapsed)
	}
	return p
}

func statePayload(r game.Round) map[string]any {
	p := map[string]any{
		"roundId": r.ID,
		"phase":   string(r.Phase),
	}
	if r.Outcome != nil {
		for k, v := range resolvedPayload(r, *r.Outcome) {
			p[k] = v
		}
	}
	return p
}

func timingPayload(t game.TimingConfig) map[string]any {
	return map[string]any{
		"fallMs":        millis(t.Fall),
		"windowStartMs": millis(t.WindowStart),
		"windowEndMs":   millis(t.WindowEnd),
		"minDelayMs":    millis(t.MinDelay),
		"maxDelayMs":    millis(t.MaxDelay),
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
