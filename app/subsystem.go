package app

import (
	"sync"
	"time"

	"github.com/lixenwraith/folio/capability"
	"github.com/lixenwraith/folio/cursor"
	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/motion"
	"github.com/lixenwraith/folio/observe"
	"github.com/lixenwraith/folio/physics"
	"github.com/lixenwraith/folio/pointer"
	"github.com/lixenwraith/folio/render"
	"github.com/lixenwraith/folio/scroll"
	"github.com/lixenwraith/folio/terminal"
	"github.com/lixenwraith/folio/transition"
)

// Options configure a Subsystem
type Options struct {
	Clock  frame.Clock
	Source capability.Source
	Layout scroll.Layout

	Elements []cursor.Element
	Cues     cursor.Cues

	Spring     physics.Spring
	Scroll     scroll.Config
	Render     []render.Option
	Transition time.Duration
}

// Subsystem owns the pointer motion components of one document
// Input handlers and frame callbacks run on the clock's goroutine
type Subsystem struct {
	Store    *cursor.Store
	Gate     *capability.Gate
	Tracker  *pointer.Tracker
	Renderer *render.CursorRenderer
	Scroller *scroll.Controller
	Elements *cursor.ElementMap
	Router   *Router
	Curtain  *transition.Curtain

	mu        sync.Mutex
	layout    scroll.Layout
	elements  []cursor.Element
	parallax  []*motion.Parallax
	motion    frame.Ticker
	cancels   []func()
	started   bool
	activates observe.List[cursor.Element]
}

// New builds a stopped subsystem
func New(opts Options) *Subsystem {
	router := NewRouter()
	store := cursor.NewStore()
	gate := capability.NewGate(opts.Source)
	tracker := pointer.NewTracker(router, opts.Clock, opts.Spring)

	return &Subsystem{
		Store:    store,
		Gate:     gate,
		Tracker:  tracker,
		Renderer: render.NewCursorRenderer(store, tracker, gate, opts.Render...),
		Scroller: scroll.New(opts.Clock.NewTicker(), opts.Scroll),
		Elements: cursor.NewElementMap(store, opts.Cues),
		Router:   router,
		Curtain:  transition.NewCurtain(opts.Clock.NewTicker(), opts.Transition),
		layout:   opts.Layout,
		elements: opts.Elements,
		motion:   opts.Clock.NewTicker(),
	}
}

// Start brings up the gate, tracking, rendering subscription and scrolling
func (s *Subsystem) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.Gate.Start()
	s.Renderer.Attach()
	if err := s.Scroller.Attach(s.Router, s.layout); err != nil {
		s.Renderer.Detach()
		s.Gate.Stop()
		return err
	}
	s.Elements.Set(s.elements)

	cancels := []func(){
		s.Tracker.Follow(s.Gate),
		s.Router.OnHover(s.hover),
		s.Router.OnClick(s.click),
		s.Router.OnFocus(func(focused bool) {
			if !focused {
				s.Elements.Leave()
			}
		}),
		// Content moves under a still pointer while scrolling
		s.Scroller.OnScroll(func(float64) {
			if p, ok := s.Router.Last(); ok {
				s.hover(p)
			}
		}),
	}

	s.mu.Lock()
	s.cancels = cancels
	s.mu.Unlock()

	s.motion.Start(s.tickMotion)
	return nil
}

// Stop releases every subscription and ticker; the subsystem cannot restart
func (s *Subsystem) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for i := len(cancels) - 1; i >= 0; i-- {
		cancels[i]()
	}
	s.motion.Stop()
	s.Curtain.Cancel()
	s.Scroller.Destroy()
	s.Renderer.Detach()
	s.Gate.Stop()
	s.Elements.Leave()
}

func (s *Subsystem) hover(p Point) {
	if s.Curtain.Running() {
		return
	}
	s.Elements.Hover(p.X, p.Y+s.Scroller.Row())
}

func (s *Subsystem) click(p Point) {
	if s.Curtain.Running() {
		return
	}
	if el, ok := s.Elements.Click(p.X, p.Y+s.Scroller.Row()); ok {
		s.activates.Emit(el)
	}
}

// OnActivate registers fn for clicks on interactive elements
func (s *Subsystem) OnActivate(fn func(cursor.Element)) (cancel func()) {
	return s.activates.Add(fn)
}

// SetElements replaces the interactive elements, e.g. after a relayout
func (s *Subsystem) SetElements(els []cursor.Element) {
	s.mu.Lock()
	s.elements = els
	started := s.started
	s.mu.Unlock()
	if started {
		s.Elements.Set(els)
	}
}

// AddParallax registers a scroll-linked value updated every frame
func (s *Subsystem) AddParallax(p *motion.Parallax) {
	s.mu.Lock()
	s.parallax = append(s.parallax, p)
	s.mu.Unlock()
}

func (s *Subsystem) tickMotion(dt time.Duration) {
	s.mu.Lock()
	ps := s.parallax
	layout := s.layout
	s.mu.Unlock()
	if len(ps) == 0 || layout == nil {
		return
	}
	offset := s.Scroller.Offset()
	vh := float64(layout.ViewportHeight())
	for _, p := range ps {
		p.Update(offset, vh, dt)
	}
}

// Navigate scrolls to a named anchor
// With curtain set the jump happens instantly under a closed curtain
func (s *Subsystem) Navigate(anchor string, curtain bool) error {
	target := scroll.Anchor(anchor)
	if _, ok := target.Resolve(s.layout); !ok {
		return scroll.ErrUnknownTarget
	}
	if !curtain {
		return s.Scroller.ScrollTo(target, scroll.Options{Duration: scroll.NavigationDuration})
	}
	s.Curtain.Begin(func() {
		s.Elements.Leave()
		_ = s.Scroller.ScrollTo(target, scroll.Options{Immediate: true})
	})
	return nil
}

// Draw paints the cursor and any running transition onto c
// Returns whether the cursor was drawn
func (s *Subsystem) Draw(c render.Canvas, mode terminal.ColorMode) bool {
	drew := false
	if !s.Curtain.Running() {
		drew = s.Renderer.Draw(c)
	}
	s.Curtain.Draw(c, mode)
	return drew
}
