package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/kiliankoe/ringdrop/internal/game"
)

// Wave is the oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSaw
)

// Point is a gain keyframe. Gain moves linearly between points and holds
// the last level after the final one.
type Point struct {
	At    time.Duration
	Level float64
}

// sweep glides exponentially from one frequency to another over a fixed
// number of samples.
type sweep struct {
	wave     Wave
	from, to float64
	rate     beep.SampleRate
	total    int
	pos      int
	phase    float64
	gain     []Point
}

// NewSweep builds a finite streamer. from == to gives a steady tone.
func NewSweep(wave Wave, from, to float64, d time.Duration, rate beep.SampleRate, gain ...Point) beep.Streamer {
	return &sweep{wave: wave, from: from, to: to, rate: rate, total: rate.N(d), gain: gain}
}

// Tone is a sweep that never changes pitch.
func Tone(wave Wave, freq float64, d time.Duration, rate beep.SampleRate, gain ...Point) beep.Streamer {
	return NewSweep(wave, freq, freq, d, rate, gain...)
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		val := shape(s.wave, s.phase) * s.level()
		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq() / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

func (s *sweep) freq() float64 {
	if s.from == s.to || s.total == 0 || s.from <= 0 {
		return s.from
	}
	return s.from * math.Pow(s.to/s.from, float64(s.pos)/float64(s.total))
}

func (s *sweep) level() float64 {
	if len(s.gain) == 0 {
		return 1
	}
	at := s.rate.D(s.pos)
	if at <= s.gain[0].At {
		return s.gain[0].Level
	}
	for i := 1; i < len(s.gain); i++ {
		a, b := s.gain[i-1], s.gain[i]
		if at <= b.At {
			span := float64(b.At - a.At)
			if span <= 0 {
				return b.Level
			}
			return a.Level + (b.Level-a.Level)*float64(at-a.At)/span
		}
	}
	return s.gain[len(s.gain)-1].Level
}

func shape(w Wave, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveSaw:
		return 2 * (phase - 0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

const (
	cueLow  = 220.0
	cueHigh = 880.0
	noteC5  = 523.25
	noteE5  = 659.25
)

// CueSound rises from 220Hz to 880Hz over the whole fall time. It swells
// until the success window opens and fades to silence at the drop.
func CueSound(t game.TimingConfig, rate beep.SampleRate) beep.Streamer {
	return NewSweep(WaveSine, cueLow, cueHigh, t.Fall, rate,
		Point{0, 0.1},
		Point{t.WindowStart, 0.5},
		Point{t.Fall, 0},
	)
}

// WinSound is a short C5 to E5 chirp.
func WinSound(rate beep.SampleRate) beep.Streamer {
	const total = 400 * time.Millisecond
	const step = 100 * time.Millisecond
	fade := func(offset time.Duration) []Point {
		return []Point{{-offset, 0.3}, {total - offset, 0}}
	}
	return beep.Seq(
		Tone(WaveTriangle, noteC5, step, rate, fade(0)...),
		Tone(WaveTriangle, noteE5, total-step, rate, fade(step)...),
	)
}

// LossSound is a falling sawtooth buzz.
func LossSound(rate beep.SampleRate) beep.Streamer {
	const d = 500 * time.Millisecond
	return NewSweep(WaveSaw, 150, 50, d, rate, Point{0, 0.3}, Point{d, 0})
}
