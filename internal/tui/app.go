package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const frame = 33 * time.Millisecond

// Triggerer is the single input the game understands.
type Triggerer interface {
	Trigger()
}

// App drives one terminal session: input goes to the machine, the view
// redraws on every notification and on animation ticks.
type App struct {
	screen  tcell.Screen
	game    Triggerer
	view    *View
	clock   clockwork.Clock
	pressed bool // left button currently held
}

func NewApp(screen tcell.Screen, g Triggerer, v *View, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{screen: screen, game: g, view: v, clock: clock}
}

// Run blocks until the player quits or ctx is cancelled. The caller owns the
// screen and calls Fini afterwards.
func (a *App) Run(ctx context.Context) error {
	a.view.attach(a.screen.PostEvent)
	defer a.view.attach(nil)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	ticker := a.clock.NewTicker(frame)
	defer ticker.Stop()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handle(ev) {
				log.Info().Msg("player quit")
				return nil
			}
		case <-ticker.Chan():
			if now := a.clock.Now(); a.view.Animating(now) {
				a.view.Draw(a.screen, now)
			}
		}
	}
}

// handle returns false when the player asked to leave.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			a.game.Trigger()
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !a.pressed {
			a.game.Trigger()
		}
		a.pressed = down
	case *tcell.EventResize:
		a.screen.Sync()
		a.draw()
	case *tcell.EventInterrupt:
		a.draw()
	}
	return true
}

func (a *App) draw() {
	a.view.Draw(a.screen, a.clock.Now())
}
