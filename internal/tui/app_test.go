package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/kiliankoe/ringdrop/internal/game"
	"github.com/kiliankoe/ringdrop/internal/timer"
)

type countTrigger chan struct{}

func (c countTrigger) Trigger() { c <- struct{}{} }

func expectTrigger(t *testing.T, c countTrigger) {
	t.Helper()
	select {
	case <-c:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a trigger")
	}
}

func expectNoTrigger(t *testing.T, c countTrigger) {
	t.Helper()
	select {
	case <-c:
		t.Fatal("unexpected trigger")
	case <-time.After(50 * time.Millisecond):
	}
}

func runApp(t *testing.T, a *App) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()
	return done
}

func expectExit(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return")
	}
}

func TestInputTriggers(t *testing.T) {
	s := newScreen(t)
	s.EnableMouse()
	trig := make(countTrigger, 8)
	a := NewApp(s, trig, NewView(clockwork.NewFakeClock(), nil), clockwork.NewFakeClock())
	done := runApp(t, a)

	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	expectTrigger(t, trig)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	expectTrigger(t, trig)

	s.InjectMouse(3, 3, tcell.Button1, tcell.ModNone)
	expectTrigger(t, trig)
	// holding the button is one press
	s.InjectMouse(4, 3, tcell.Button1, tcell.ModNone)
	expectNoTrigger(t, trig)
	s.InjectMouse(4, 3, tcell.ButtonNone, tcell.ModNone)
	s.InjectMouse(4, 3, tcell.Button1, tcell.ModNone)
	expectTrigger(t, trig)

	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	expectNoTrigger(t, trig)

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	expectExit(t, done)
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC} {
		s := newScreen(t)
		a := NewApp(s, make(countTrigger, 1), NewView(nil, nil), clockwork.NewFakeClock())
		done := runApp(t, a)
		s.InjectKey(key, 0, tcell.ModNone)
		expectExit(t, done)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newScreen(t)
	a := NewApp(s, make(countTrigger, 1), NewView(nil, nil), clockwork.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return")
	}
}

func TestFullRoundInTerminal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newScreen(t)
	view := NewView(clock, nil)
	cfg := game.DefaultTiming()
	cfg.MinDelay, cfg.MaxDelay = time.Second, time.Second
	sched := timer.NewScheduler(clock)
	defer sched.Stop()
	m, err := game.NewMachine(cfg, clock, sched, view)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	defer m.Close()

	a := NewApp(s, m, view, clock)
	done := runApp(t, a)

	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	waitText(t, view, game.StatusWaiting)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// one waiter for the app ticker, one for the pre-cue delay
	if err := clock.BlockUntilContext(ctx, 2); err != nil {
		t.Fatalf("timers never registered: %v", err)
	}
	clock.Advance(time.Second)
	waitText(t, view, game.StatusReady)

	clock.Advance(3200 * time.Millisecond)
	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	won, _ := game.Success(3200 * time.Millisecond).Message()
	waitText(t, view, won)

	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	expectExit(t, done)
}

func waitText(t *testing.T, v *View, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status, _ := v.Text(); status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	status, _ := v.Text()
	t.Fatalf("expected status %q, got %q", want, status)
}
