// Package audio plays a short tone when an agent comes out of a portal.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/paperflock/systems"
)

const (
	sampleRate = beep.SampleRate(44100)

	// MinInterval is the shortest gap between two chimes.
	MinInterval = 120 * time.Millisecond

	toneDuration = 180 * time.Millisecond
	toneAttack   = 10 * time.Millisecond
	toneVolume   = 0.25
)

// Exit pitches: C5 out of the border, G5 out of the centre.
const (
	BorderFreq = 523.25
	PointFreq  = 783.99
)

// Chime mixes teleport tones onto the speaker.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	last        time.Time
	now         func() time.Time
}

// NewChime creates a chime. Call Initialize before it makes sound.
func NewChime() *Chime {
	return &Chime{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize opens the speaker.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Teleported plays the exit tone for kind, at most once per MinInterval.
func (c *Chime) Teleported(kind systems.PortalKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.allow() || !c.initialized {
		return
	}
	tone, err := Tone(kind, sampleRate)
	if err != nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(tone)
	speaker.Unlock()
}

// allow applies the throttle. Caller holds mu.
func (c *Chime) allow() bool {
	now := c.now()
	if !c.last.IsZero() && now.Sub(c.last) < MinInterval {
		return false
	}
	c.last = now
	return true
}

// Close silences pending tones.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Tone builds the finite, enveloped sine for an exit portal kind.
func Tone(kind systems.PortalKind, rate beep.SampleRate) (beep.Streamer, error) {
	freq := BorderFreq
	if kind == systems.PortalPoint {
		freq = PointFreq
	}
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone: %w", err)
	}
	shaped := &decay{
		streamer: beep.Take(rate.N(toneDuration), sine),
		attack:   rate.N(toneAttack),
		total:    rate.N(toneDuration),
	}
	return &effects.Volume{Streamer: shaped, Base: 2, Volume: math.Log2(toneVolume)}, nil
}

// decay is a linear attack followed by a linear fade to silence.
type decay struct {
	streamer beep.Streamer
	pos      int
	attack   int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if d.pos < d.attack {
			vol = float64(d.pos) / float64(d.attack)
		} else if d.total > d.attack {
			vol = float64(d.total-d.pos) / float64(d.total-d.attack)
		}
		vol = math.Max(vol, 0)
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }
