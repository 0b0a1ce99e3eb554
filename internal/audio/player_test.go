package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/kiliankoe/ringdrop/internal/game"
)

func mixerPlayer() *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		timing: game.DefaultTiming(),
		active: true,
		lock:   func() {},
		unlock: func() {},
	}
}

func TestDisabledPlayerIsSilent(t *testing.T) {
	p := NewPlayer(false, game.DefaultTiming())
	p.PlayCue()
	p.PlayWin()
	p.PlayLoss()
	p.StopCue()
	p.Close()
	if p.mixer.Len() != 0 {
		t.Fatalf("expected empty mixer, got %d streamers", p.mixer.Len())
	}
}

func TestStopCuePausesCue(t *testing.T) {
	p := mixerPlayer()
	p.PlayCue()
	cue := p.cue
	if cue == nil || p.mixer.Len() != 1 {
		t.Fatalf("expected one cue in the mixer, got %d", p.mixer.Len())
	}
	p.StopCue()
	if !cue.Paused {
		t.Fatal("expected cue to be paused")
	}
	p.StopCue()
}

func TestNewCueReplacesOld(t *testing.T) {
	p := mixerPlayer()
	p.PlayCue()
	first := p.cue
	p.PlayCue()
	if !first.Paused {
		t.Fatal("expected the previous cue to be paused")
	}
	if p.cue == first {
		t.Fatal("expected a fresh cue")
	}
}

func TestEffectsAreMixed(t *testing.T) {
	p := mixerPlayer()
	p.PlayWin()
	p.PlayLoss()
	if p.mixer.Len() != 2 {
		t.Fatalf("expected 2 streamers, got %d", p.mixer.Len())
	}
}

func TestStoppedCuesLeaveMixer(t *testing.T) {
	p := mixerPlayer()
	for i := 0; i < 50; i++ {
		p.PlayCue()
		p.StopCue()
	}
	p.mixer.Stream(make([][2]float64, 64))
	if p.mixer.Len() != 0 {
		t.Fatalf("expected stopped cues to be dropped, got %d streamers", p.mixer.Len())
	}
}

func TestReplacedCueLeavesMixer(t *testing.T) {
	p := mixerPlayer()
	p.PlayCue()
	p.PlayCue()
	p.mixer.Stream(make([][2]float64, 64))
	if p.mixer.Len() != 1 {
		t.Fatalf("expected only the live cue, got %d streamers", p.mixer.Len())
	}
}
