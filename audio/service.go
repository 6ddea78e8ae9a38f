package audio

import (
	"log"
	"sync/atomic"
)

// Service wraps Player as a service
// Handles graceful degradation when no audio output is available
type Service struct {
	cfg      Config
	out      Output
	player   *Player
	disabled atomic.Bool
}

// NewService creates an audio service playing through out
func NewService(cfg Config, out Output) *Service {
	return &Service{cfg: cfg, out: out}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: bool - initial mute state
func (s *Service) Init(args ...any) error {
	cfg := s.cfg
	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			cfg.Enabled = !muted
		}
	}
	s.player = NewPlayer(cfg, s.out)
	return nil
}

// Start implements service.Service
// Sets disabled on failure; no error is returned
func (s *Service) Start() error {
	if s.player == nil {
		s.disabled.Store(true)
		return nil
	}
	if err := s.player.Open(); err != nil {
		log.Printf("Audio initialization failed: %v", err)
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.player != nil {
		s.player.Close()
	}
	return nil
}

// IsDisabled returns true if audio is unavailable
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}

// Player returns the player, nil if disabled
func (s *Service) Player() *Player {
	if s.disabled.Load() {
		return nil
	}
	return s.player
}

// PlayHover plays the hover cue if audio is available
func (s *Service) PlayHover() {
	if p := s.Player(); p != nil {
		p.PlayHover()
	}
}

// PlayClick plays the click cue if audio is available
func (s *Service) PlayClick() {
	if p := s.Player(); p != nil {
		p.PlayClick()
	}
}

// ToggleMute flips mute; reports true (muted) when audio is unavailable
func (s *Service) ToggleMute() bool {
	if p := s.Player(); p != nil {
		return p.ToggleMute()
	}
	return true
}

// IsMuted reports mute state; unavailable audio counts as muted
func (s *Service) IsMuted() bool {
	if p := s.Player(); p != nil {
		return p.IsMuted()
	}
	return true
}
