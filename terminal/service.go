package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Service manages the screen lifecycle and input polling
type Service struct {
	mu      sync.Mutex
	screen  tcell.Screen
	factory func() (tcell.Screen, error)
	onPanic func(any)
	mouse   bool

	colorMode ColorMode
	eventCh   chan Event
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
	inited    bool
}

// Option configures a Service
type Option func(*Service)

// WithScreen uses an existing screen, e.g. a tcell.SimulationScreen
func WithScreen(s tcell.Screen) Option {
	return func(svc *Service) {
		svc.factory = func() (tcell.Screen, error) { return s, nil }
	}
}

// WithPanicHandler routes poller panics to fn instead of re-panicking
func WithPanicHandler(fn func(any)) Option {
	return func(svc *Service) { svc.onPanic = fn }
}

// NewService creates a terminal service
// A service runs once; Stop is final
func NewService(opts ...Option) *Service {
	s := &Service{
		factory: tcell.NewScreen,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements service.Service
func (s *Service) Name() string {
	return "terminal"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: bool - enable mouse tracking (default true)
// args[1]: ColorMode (optional, defaults to DetectColorMode())
func (s *Service) Init(args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inited {
		return nil
	}

	s.mouse = true
	s.colorMode = DetectColorMode()
	if len(args) > 0 {
		if m, ok := args[0].(bool); ok {
			s.mouse = m
		}
	}
	if len(args) > 1 {
		if cm, ok := args[1].(ColorMode); ok {
			s.colorMode = cm
		}
	}

	screen, err := s.factory()
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	if s.mouse {
		screen.EnableMouse(tcell.MouseMotionEvents)
	}
	screen.EnableFocus()
	screen.HideCursor()
	screen.Clear()

	s.screen = screen
	s.inited = true
	return nil
}

// Start implements service.Service - launches input polling goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.screen == nil {
		return fmt.Errorf("terminal start: not initialized")
	}
	s.running = true

	go s.pollLoop(s.screen)
	return nil
}

// pollLoop reads screen events until the screen is finalized
func (s *Service) pollLoop(screen tcell.Screen) {
	defer close(s.doneCh)
	defer func() {
		if r := recover(); r != nil {
			if s.onPanic == nil {
				panic(r)
			}
			s.onPanic(r)
		}
	}()

	var tr translator
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Fini closes the event queue
			select {
			case s.eventCh <- Event{Type: EventClosed}:
			default:
			}
			return
		}
		out := tr.translate(ev)
		if out.Type == EventNone {
			continue
		}
		select {
		case s.eventCh <- out:
		case <-s.stopCh:
			return
		}
	}
}

// Stop implements service.Service - restores the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	screen := s.screen
	running := s.running
	s.running = false
	s.screen = nil
	s.inited = false
	s.mu.Unlock()

	if screen == nil {
		return nil
	}
	if running {
		close(s.stopCh)
	}
	screen.Fini()
	if running {
		<-s.doneCh
	}
	return nil
}

// Screen returns the active screen, nil before Init or after Stop
func (s *Service) Screen() tcell.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// HasMouse reports whether the screen receives mouse events
// Satisfies capability.MouseProber
func (s *Service) HasMouse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen != nil && s.mouse && s.screen.HasMouse()
}

// ColorMode returns the detected color capability
func (s *Service) ColorMode() ColorMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colorMode
}

// Events returns the translated input channel
// EventClosed is delivered once when the screen shuts down
func (s *Service) Events() <-chan Event {
	return s.eventCh
}
