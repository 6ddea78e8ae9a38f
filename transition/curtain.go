// Package transition provides the curtain page transition: panels close over
// the screen, the page swaps at the midpoint, then the panels open again
package transition

import (
	"sync"
	"time"

	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/motion"
	"github.com/lixenwraith/folio/observe"
)

// DefaultDuration is the full cover-and-reveal time
const DefaultDuration = 800 * time.Millisecond

// DefaultPanels is the number of vertical curtain strips
const DefaultPanels = 5

// Stagger is the per-panel start delay as a fraction of the duration
const Stagger = 0.03125

// Phase of a running transition
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseCovering
	PhaseRevealing
)

func (p Phase) String() string {
	switch p {
	case PhaseCovering:
		return "covering"
	case PhaseRevealing:
		return "revealing"
	default:
		return "idle"
	}
}

// Curtain runs one transition at a time on a frame ticker
type Curtain struct {
	mu sync.Mutex

	ticker   frame.Ticker
	duration time.Duration
	panels   int
	easing   motion.Easing

	phase   Phase
	elapsed time.Duration
	onSwap  func()
	swapped bool
	runs    uint64

	completes observe.List[struct{}]
}

// NewCurtain creates an idle curtain; non-positive duration uses DefaultDuration
func NewCurtain(ticker frame.Ticker, duration time.Duration) *Curtain {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Curtain{
		ticker:   ticker,
		duration: duration,
		panels:   DefaultPanels,
		easing:   motion.Curtain,
	}
}

// Begin starts a transition; onSwap runs once at the midpoint, fully covered
// Returns false if a transition is already running
func (c *Curtain) Begin(onSwap func()) bool {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return false
	}
	c.phase = PhaseCovering
	c.elapsed = 0
	c.onSwap = onSwap
	c.swapped = false
	c.runs++
	c.mu.Unlock()

	c.ticker.Start(c.tick)
	return true
}

func (c *Curtain) tick(dt time.Duration) {
	c.mu.Lock()
	if c.phase == PhaseIdle {
		c.mu.Unlock()
		return
	}
	c.elapsed += dt
	half := c.duration / 2

	var swap func()
	if !c.swapped && c.elapsed >= half {
		c.swapped = true
		c.phase = PhaseRevealing
		swap = c.onSwap
		c.onSwap = nil
	}
	done := c.elapsed >= c.duration
	if done {
		c.phase = PhaseIdle
	}
	c.mu.Unlock()

	if swap != nil {
		swap()
	}
	if done {
		c.ticker.Stop()
		c.completes.Emit(struct{}{})
	}
}

// Cancel stops a running transition without swapping
func (c *Curtain) Cancel() {
	c.mu.Lock()
	c.phase = PhaseIdle
	c.onSwap = nil
	c.mu.Unlock()
	c.ticker.Stop()
}

// OnComplete registers fn for finished transitions
func (c *Curtain) OnComplete(fn func()) (cancel func()) {
	return c.completes.Add(func(struct{}) { fn() })
}

// Phase returns the current phase
func (c *Curtain) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Running reports whether a transition is in progress
func (c *Curtain) Running() bool {
	return c.Phase() != PhaseIdle
}

// Panels returns the number of strips
func (c *Curtain) Panels() int {
	return c.panels
}

// Panel returns the coverage of strip i in [0,1]
func (c *Curtain) Panel(i int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel(i)
}

func (c *Curtain) panel(i int) float64 {
	if c.phase == PhaseIdle || i < 0 || i >= c.panels {
		return 0
	}
	total := c.duration.Seconds()
	half := total / 2
	delay := float64(i) * Stagger * total
	span := half - float64(c.panels-1)*Stagger*total
	t := c.elapsed.Seconds()

	if c.phase == PhaseCovering {
		return c.easing((t - delay) / span)
	}
	return 1 - c.easing((t-half-delay)/span)
}

// Coverage returns the mean coverage across strips
func (c *Curtain) Coverage() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := 0.0
	for i := 0; i < c.panels; i++ {
		sum += c.panel(i)
	}
	return sum / float64(c.panels)
}

// Runs returns the number of transitions started
func (c *Curtain) Runs() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}
