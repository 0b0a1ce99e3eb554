package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/kiliankoe/ringdrop/internal/game"
	"github.com/rs/zerolog/log"
)

const sampleRate = beep.SampleRate(48000)

// Player mixes game sounds onto the speaker. A Player that is disabled, or
// whose device failed to open, accepts every call and plays nothing.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	cue    *beep.Ctrl
	timing game.TimingConfig
	active bool

	// lock guards the mixer against the speaker goroutine.
	lock, unlock func()
}

// NewPlayer opens the default output device when enabled.
func NewPlayer(enabled bool, timing game.TimingConfig) *Player {
	p := &Player{mixer: &beep.Mixer{}, timing: timing, lock: func() {}, unlock: func() {}}
	if !enabled {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		log.Warn().Err(err).Msg("audio device unavailable, playing silently")
		return p
	}
	p.lock, p.unlock = speaker.Lock, speaker.Unlock
	speaker.Play(p.mixer)
	p.active = true
	return p
}

func (p *Player) PlayCue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.lock()
	defer p.unlock()
	if p.cue != nil {
		silence(p.cue)
	}
	p.cue = &beep.Ctrl{Streamer: CueSound(p.timing, sampleRate)}
	p.mixer.Add(p.cue)
}

// StopCue silences a cue that is still sounding.
func (p *Player) StopCue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cue == nil {
		return
	}
	p.lock()
	silence(p.cue)
	p.unlock()
	p.cue = nil
}

// silence pauses c and detaches its streamer. A Ctrl without a streamer
// reports it is drained, so the mixer drops it on the next buffer.
func silence(c *beep.Ctrl) {
	c.Paused = true
	c.Streamer = nil
}

func (p *Player) PlayWin()  { p.play(WinSound(sampleRate)) }
func (p *Player) PlayLoss() { p.play(LossSound(sampleRate)) }

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.lock()
	p.mixer.Add(s)
	p.unlock()
}

// Close drops all queued sounds and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.lock()
	p.mixer.Clear()
	p.unlock()
	speaker.Close()
	p.active = false
}
