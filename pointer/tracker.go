// Package pointer converts raw pointer coordinates into a spring-smoothed
// position sampled once per frame
package pointer

import (
	"sync"
	"time"

	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/physics"
)

// Offscreen is the initial smoothed position, outside any viewport
const Offscreen = -100

// Source delivers raw pointer moves
type Source interface {
	// OnMove registers fn for pointer motion and returns its cancel function
	OnMove(fn func(x, y float64)) (cancel func())
}

// Gate reports whether decorated tracking should run
type Gate interface {
	Active() bool
	OnChange(fn func(active bool)) (cancel func())
}

// Tracker smooths raw pointer samples with a damped spring
// While detached it holds no pointer subscription and no frame ticker
type Tracker struct {
	mu sync.Mutex

	spring physics.Spring
	x, y   physics.Body

	rawX, rawY float64
	hasRaw     bool
	pending    bool

	source Source
	ticker frame.Ticker

	cancelMove func()
	attached   bool

	samples uint64 // raw samples applied, at most one per frame
	moves   uint64 // raw move events received
}

// NewTracker creates a detached tracker
func NewTracker(source Source, clock frame.Clock, spring physics.Spring) *Tracker {
	if !spring.Valid() {
		spring = physics.DefaultSpring()
	}
	t := &Tracker{
		spring: spring,
		source: source,
		ticker: clock.NewTicker(),
	}
	t.x = physics.Body{Position: Offscreen, Target: Offscreen}
	t.y = physics.Body{Position: Offscreen, Target: Offscreen}
	return t
}

// Attach subscribes to pointer motion and starts per-frame smoothing
func (t *Tracker) Attach() {
	t.mu.Lock()
	if t.attached {
		t.mu.Unlock()
		return
	}
	t.attached = true
	t.mu.Unlock()

	var cancel func()
	if t.source != nil {
		cancel = t.source.OnMove(t.Move)
	}

	t.mu.Lock()
	t.cancelMove = cancel
	t.mu.Unlock()

	t.ticker.Start(t.tick)
}

// Detach releases the pointer subscription and the frame ticker
// A pending unapplied sample is dropped
func (t *Tracker) Detach() {
	t.mu.Lock()
	if !t.attached {
		t.mu.Unlock()
		return
	}
	t.attached = false
	cancel := t.cancelMove
	t.cancelMove = nil
	t.pending = false
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.ticker.Stop()
}

// Attached reports whether the tracker is subscribed
func (t *Tracker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attached
}

// Follow attaches while g is active and detaches while it is inactive
// Returns a cancel function that also detaches
func (t *Tracker) Follow(g Gate) (cancel func()) {
	if g.Active() {
		t.Attach()
	} else {
		t.Detach()
	}

	stop := g.OnChange(func(active bool) {
		if active {
			t.Attach()
		} else {
			t.Detach()
		}
	})

	return func() {
		stop()
		t.Detach()
	}
}

// Move records a raw sample; moves within one frame collapse to the latest
func (t *Tracker) Move(x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.attached {
		return
	}
	t.rawX, t.rawY = x, y
	t.hasRaw = true
	t.pending = true
	t.moves++
}

// tick applies the latest raw sample as target and advances both axes
func (t *Tracker) tick(dt time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending {
		t.x.Target = t.rawX
		t.y.Target = t.rawY
		t.pending = false
		t.samples++
	}

	secs := frame.Seconds(dt)
	t.spring.Step(&t.x, secs)
	t.spring.Step(&t.y, secs)
}

// Position returns the smoothed coordinate
func (t *Tracker) Position() (x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.x.Position, t.y.Position
}

// Raw returns the latest raw coordinate, if any has been seen
func (t *Tracker) Raw() (x, y float64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawX, t.rawY, t.hasRaw
}

// Settled reports whether both axes rest on their targets
func (t *Tracker) Settled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spring.AtRest(t.x) && t.spring.AtRest(t.y)
}

// SetSpring replaces spring parameters; invalid parameters are ignored
func (t *Tracker) SetSpring(s physics.Spring) {
	if !s.Valid() {
		return
	}
	t.mu.Lock()
	t.spring = s
	t.mu.Unlock()
}

// Spring returns the current spring parameters
func (t *Tracker) Spring() physics.Spring {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spring
}

// Samples returns the number of raw samples applied by frames
func (t *Tracker) Samples() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.samples
}

// Moves returns the number of raw move events received while attached
func (t *Tracker) Moves() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moves
}
