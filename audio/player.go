// Package audio plays the hover and click interaction cues
// Playback failures never surface to callers; audio is simply inert
package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// ErrNoAudio is returned when the output device cannot be opened
var ErrNoAudio = errors.New("audio: output unavailable")

// Output is the device the mixer plays into
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// speakerOutput plays through the system speaker
type speakerOutput struct{}

// Speaker returns the system speaker output
func Speaker() Output { return speakerOutput{} }

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }
func (speakerOutput) Close()                  { speaker.Close() }

// Config holds cue volumes and output settings
type Config struct {
	Enabled      bool
	SampleRate   int
	MasterVolume float64
	HoverVolume  float64
	ClickVolume  float64
}

// DefaultConfig returns hover at 0.2 and click at 0.5
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		SampleRate:   44100,
		MasterVolume: 1.0,
		HoverVolume:  0.2,
		ClickVolume:  0.5,
	}
}

func (c Config) volume(cue Cue) float64 {
	switch cue {
	case CueHover:
		return c.HoverVolume * c.MasterVolume
	case CueClick:
		return c.ClickVolume * c.MasterVolume
	}
	return 0
}

// Player mixes cues into one output stream
// Replaying a cue restarts it; at most one instance per cue sounds at a time
type Player struct {
	mu          sync.Mutex
	cfg         Config
	out         Output
	mixer       *beep.Mixer
	active      [cueCount]*beep.Ctrl
	initialized bool
	muted       bool

	plays   uint64
	dropped uint64
}

// NewPlayer creates a closed player over out
func NewPlayer(cfg Config, out Output) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	return &Player{
		cfg:   cfg,
		out:   out,
		mixer: &beep.Mixer{},
		muted: !cfg.Enabled,
	}
}

// Open initializes the output and starts the mixer
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if p.out == nil {
		return ErrNoAudio
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := p.out.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAudio, err)
	}

	p.out.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops all cues and releases the output
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	p.out.Lock()
	for i, ctrl := range p.active {
		if ctrl != nil {
			ctrl.Paused = true
			p.active[i] = nil
		}
	}
	p.mixer.Clear()
	p.out.Unlock()

	p.out.Close()
	p.initialized = false
}

// Play starts cue from the beginning, cutting off a previous instance
// Returns false when the cue was dropped (closed, muted or unknown)
func (p *Player) Play(cue Cue) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted || cue >= cueCount {
		p.dropped++
		return false
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	s := newCueStreamer(cue, rate)
	if s == nil {
		p.dropped++
		return false
	}
	ctrl := &beep.Ctrl{Streamer: newVolume(s, p.cfg.volume(cue))}

	p.out.Lock()
	if prev := p.active[cue]; prev != nil {
		// A nil streamer ends the previous instance; the mixer drops it
		prev.Streamer = nil
	}
	p.active[cue] = ctrl
	p.mixer.Add(ctrl)
	p.out.Unlock()

	p.plays++
	return true
}

// PlayHover plays the hover cue
func (p *Player) PlayHover() { p.Play(CueHover) }

// PlayClick plays the click cue
func (p *Player) PlayClick() { p.Play(CueClick) }

// SetMuted mutes or unmutes future cues
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
	log.Printf("audio muted=%v", muted)
}

// ToggleMute flips mute and returns the new state
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	p.muted = !p.muted
	muted := p.muted
	p.mu.Unlock()
	return muted
}

// IsMuted reports whether cues are muted
func (p *Player) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// IsRunning reports whether the output is open
func (p *Player) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// SetVolumes updates cue volumes for subsequent plays
func (p *Player) SetVolumes(master, hover, click float64) {
	p.mu.Lock()
	p.cfg.MasterVolume = clampVolume(master)
	p.cfg.HoverVolume = clampVolume(hover)
	p.cfg.ClickVolume = clampVolume(click)
	p.mu.Unlock()
}

// Stats returns played and dropped cue counts
func (p *Player) Stats() (plays, dropped uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays, p.dropped
}

func clampVolume(v float64) float64 {
	return max(0, min(1, v))
}
