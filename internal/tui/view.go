package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/kiliankoe/ringdrop/internal/game"
)

// Sound is what the view needs from the audio player.
type Sound interface {
	PlayCue()
	StopCue()
	PlayWin()
	PlayLoss()
}

type silent struct{}

func (silent) PlayCue()  {}
func (silent) StopCue()  {}
func (silent) PlayWin()  {}
func (silent) PlayLoss() {}

type ringState int

const (
	ringSteady ringState = iota
	ringShaking
	ringFalling
)

const (
	shakePeriod = 75 * time.Millisecond
	fallRow     = 60 * time.Millisecond
	jumpLength  = 500 * time.Millisecond
	jumpHeight  = 3

	// the ring only drops once the player is already in the air
	jumpHeadStart = 200 * time.Millisecond
)

// View renders one game and implements game.Notifier. Its methods are called
// with the machine locked, so they only update state and ask for a redraw.
type View struct {
	clock clockwork.Clock
	sound Sound

	mu      sync.Mutex
	post    func(tcell.Event) error
	status  string
	sub     string
	ring    ringState
	fallAt  time.Time
	jumping bool
	jumpAt  time.Time
}

func NewView(clock clockwork.Clock, sound Sound) *View {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if sound == nil {
		sound = silent{}
	}
	return &View{clock: clock, sound: sound, status: game.StatusIdle, sub: "Jump just before the ring drops"}
}

func (v *View) attach(post func(tcell.Event) error) {
	v.mu.Lock()
	v.post = post
	v.mu.Unlock()
}

// Text returns the status and hint lines currently shown.
func (v *View) Text() (status, sub string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status, v.sub
}

func (v *View) RoundArmed(game.Round) {
	v.sound.StopCue()
	v.update(func() {
		v.status, v.sub = game.StatusWaiting, game.HintListen
		v.ring = ringSteady
		v.jumping = false
	})
}

func (v *View) CueStarted(game.Round) {
	v.sound.PlayCue()
	v.update(func() {
		v.status, v.sub = game.StatusReady, ""
		v.ring = ringShaking
	})
}

func (v *View) ResolvedSuccess(_ game.Round, elapsed time.Duration) {
	v.sound.StopCue()
	v.sound.PlayWin()
	now := v.clock.Now()
	v.update(func() {
		v.status, v.sub = game.Success(elapsed).Message()
		v.jumping, v.jumpAt = true, now
		v.ring, v.fallAt = ringFalling, now.Add(jumpHeadStart)
	})
}

func (v *View) ResolvedFailure(_ game.Round, reason game.Reason, elapsed time.Duration) {
	v.sound.StopCue()
	v.sound.PlayLoss()
	now := v.clock.Now()
	v.update(func() {
		v.status, v.sub = game.Failure(reason, elapsed).Message()
		v.jumping = false
		v.ring, v.fallAt = ringFalling, now
	})
}

func (v *View) update(fn func()) {
	v.mu.Lock()
	fn()
	post := v.post
	v.mu.Unlock()
	if post != nil {
		_ = post(tcell.NewEventInterrupt(nil))
	}
}

// Animating reports whether frames still change over time.
func (v *View) Animating(now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.ring == ringShaking:
		return true
	case v.jumping && now.Sub(v.jumpAt) < jumpLength:
		return true
	case v.ring == ringFalling:
		// 32 rows is deeper than any scene we draw
		return now.Sub(v.fallAt) < 32*fallRow
	}
	return false
}

var (
	styleText   = tcell.StyleDefault
	styleHint   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRing   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleFloor  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

const ringArt = "(===)"

// Draw paints the scene for the given instant.
func (v *View) Draw(s tcell.Screen, now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	s.Clear()
	w, h := s.Size()
	drawCentered(s, w, 1, v.status, styleText)
	drawCentered(s, w, 2, v.sub, styleHint)

	floor := h - 2
	ringY := 5
	if ringY >= floor-4 {
		ringY = 4
	}
	cx := w / 2

	ringX := cx - len(ringArt)/2
	visible := true
	switch v.ring {
	case ringShaking:
		if (now.UnixNano()/int64(shakePeriod))%2 == 0 {
			ringX--
		} else {
			ringX++
		}
	case ringFalling:
		if d := now.Sub(v.fallAt); d > 0 {
			ringY += int(d / fallRow)
		}
		visible = ringY < floor
	}
	if visible {
		drawText(s, ringX, ringY, ringArt, styleRing)
	}

	lift := 0
	if v.jumping {
		if d := now.Sub(v.jumpAt); d >= 0 && d < jumpLength {
			half := jumpLength / 2
			if d < half {
				lift = int(jumpHeight * d / half)
			} else {
				lift = int(jumpHeight * (jumpLength - d) / half)
			}
		}
	}
	drawText(s, cx, floor-3-lift, "o", stylePlayer)
	drawText(s, cx-1, floor-2-lift, "/|\\", stylePlayer)
	drawText(s, cx-1, floor-1-lift, "/ \\", stylePlayer)

	for x := 0; x < w; x++ {
		s.SetContent(x, floor, '─', nil, styleFloor)
	}
	s.Show()
}

func drawCentered(s tcell.Screen, w, y int, text string, style tcell.Style) {
	drawText(s, (w-len([]rune(text)))/2, y, text, style)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
