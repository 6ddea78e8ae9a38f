// Package scroll implements the page-wide virtual scroll: smoothed wheel,
// touch and key input, eased programmatic scrolling, and native scrolling
// inside excluded regions
package scroll

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/motion"
	"github.com/lixenwraith/folio/observe"
)

var (
	// ErrUnknownTarget is returned by ScrollTo for targets that do not resolve
	ErrUnknownTarget = errors.New("scroll: unknown target")
	// ErrDetached is returned when the controller has no layout or was destroyed
	ErrDetached = errors.New("scroll: controller not attached")
)

// NavigationDuration is the scrollTo duration used by anchor navigation
const NavigationDuration = 800 * time.Millisecond

// settleEpsilon ends input smoothing once within this many rows of the target
const settleEpsilon = 0.01

// Phase is the controller animation state
type Phase uint8

const (
	// PhaseIdle: offset rests on target
	PhaseIdle Phase = iota
	// PhaseAnimating: eased programmatic scroll in flight
	PhaseAnimating
	// PhaseSmoothing: lerping toward an input-driven target
	PhaseSmoothing
)

func (p Phase) String() string {
	switch p {
	case PhaseAnimating:
		return "animating"
	case PhaseSmoothing:
		return "smoothing"
	default:
		return "idle"
	}
}

// Config holds smoothing parameters
type Config struct {
	// Lerp is the per-frame approach fraction at 60 Hz
	Lerp            float64
	WheelMultiplier float64
	TouchMultiplier float64
	// Duration is the default ScrollTo duration
	Duration time.Duration
	Easing   motion.Easing
}

// DefaultConfig returns the stock smoothing parameters
func DefaultConfig() Config {
	return Config{
		Lerp:            0.08,
		WheelMultiplier: 1,
		TouchMultiplier: 2,
		Duration:        700 * time.Millisecond,
		Easing:          motion.ExpoOut,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Lerp <= 0 || c.Lerp > 1 {
		c.Lerp = d.Lerp
	}
	if c.WheelMultiplier <= 0 {
		c.WheelMultiplier = d.WheelMultiplier
	}
	if c.TouchMultiplier <= 0 {
		c.TouchMultiplier = d.TouchMultiplier
	}
	if c.Duration <= 0 {
		c.Duration = d.Duration
	}
	if c.Easing == nil {
		c.Easing = d.Easing
	}
	return c
}

// Options tune a single ScrollTo
type Options struct {
	// Duration overrides the configured duration when positive
	Duration time.Duration
	// Offset is added to the resolved target position
	Offset float64
	// Easing overrides the configured easing
	Easing motion.Easing
	// Immediate jumps without animating
	Immediate bool
}

// State is a snapshot of the controller
type State struct {
	Offset   float64
	Target   float64
	Limit    float64
	Progress float64
	Phase    Phase
	Frames   uint64
}

type animation struct {
	from, to float64
	elapsed  time.Duration
	duration time.Duration
	easing   motion.Easing
}

// Controller owns the virtual scroll offset of one document
// All methods are safe for concurrent use; callbacks run outside the lock
type Controller struct {
	mu sync.Mutex

	cfg    Config
	ticker frame.Ticker
	layout Layout

	cancelInput  func()
	cancelLayout func()
	attached     bool
	destroyed   bool

	offset float64
	target float64
	limit  float64
	phase  Phase
	anim   animation

	viewport int
	excluded []Region
	native   map[string]*NativeScroll

	frames       uint64
	inputs       uint64
	nativeInputs uint64

	scrollListeners observe.List[float64]
	doneListeners   observe.List[float64]
}

// New creates a detached controller ticking on ticker
func New(ticker frame.Ticker, cfg Config) *Controller {
	return &Controller{
		cfg:    cfg.normalized(),
		ticker: ticker,
		native: make(map[string]*NativeScroll),
	}
}

// Attach subscribes to input and layout changes, reads the layout and starts
// the frame loop
// The loop runs every frame whether or not a scroll is pending
func (c *Controller) Attach(src Source, layout Layout) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return ErrDetached
	}
	if c.attached {
		c.mu.Unlock()
		return nil
	}
	c.attached = true
	c.layout = layout
	c.mu.Unlock()

	c.Relayout()

	var cancel, cancelLayout func()
	if src != nil {
		cancel = src.OnInput(c.Input)
	}
	if layout != nil {
		cancelLayout = layout.OnChange(c.Relayout)
	}

	c.mu.Lock()
	c.cancelInput = cancel
	c.cancelLayout = cancelLayout
	c.mu.Unlock()

	c.ticker.Start(c.tick)
	return nil
}

// Relayout re-reads dimensions and the exclusion set from the layout
// Attached controllers run it on every layout change
// Native offsets of regions that survive by name are kept
func (c *Controller) Relayout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.layout == nil {
		return
	}

	c.viewport = c.layout.ViewportHeight()
	c.limit = math.Max(0, float64(c.layout.ContentHeight()-c.viewport))

	c.excluded = c.excluded[:0]
	native := make(map[string]*NativeScroll)
	for _, r := range c.layout.Regions() {
		if !r.IsExcluded() {
			continue
		}
		c.excluded = append(c.excluded, r)
		ns, ok := c.native[r.Name]
		if !ok {
			ns = NewNativeScroll(r.Content, r.Height)
		}
		ns.Resize(r.Content, r.Height)
		native[r.Name] = ns
	}
	c.native = native

	c.offset = c.clamp(c.offset)
	c.target = c.clamp(c.target)
	if c.phase == PhaseAnimating {
		c.anim.to = c.clamp(c.anim.to)
	}
}

func (c *Controller) clamp(v float64) float64 {
	return math.Max(0, math.Min(c.limit, v))
}

// Input applies one scroll gesture step
// User input always overrides a programmatic animation
func (c *Controller) Input(in Input) {
	c.mu.Lock()
	if !c.attached || c.destroyed {
		c.mu.Unlock()
		return
	}
	c.inputs++

	if c.scrollNative(in) {
		c.nativeInputs++
		c.mu.Unlock()
		return
	}

	base := c.target
	if c.phase == PhaseAnimating {
		// Continue from where the animation is, not where it was going
		base = c.offset
	}

	var next float64
	switch {
	case in.Edge == EdgeTop:
		next = 0
	case in.Edge == EdgeBottom:
		next = c.limit
	default:
		delta := in.Delta
		switch in.Kind {
		case KindWheel:
			delta *= c.cfg.WheelMultiplier
		case KindTouch:
			delta *= c.cfg.TouchMultiplier
		}
		delta += in.Pages * float64(max(c.viewport-1, 1))
		next = base + delta
	}

	c.target = c.clamp(next)
	if c.target == c.offset {
		c.phase = PhaseIdle
	} else {
		c.phase = PhaseSmoothing
	}
	c.mu.Unlock()
}

// scrollNative applies input to the excluded region under the pointer
// Keys reach a region only as page steps with a known pointer position
func (c *Controller) scrollNative(in Input) bool {
	if in.Kind == KindKey && (!in.Pointer || in.Pages == 0) {
		return false
	}
	ns := c.nativeAt(in.X, in.Y+c.offset)
	if ns == nil {
		return false
	}
	switch {
	case in.Kind != KindKey:
		ns.ScrollBy(int(math.Round(in.Delta)))
	case in.Pages > 0:
		ns.PageDown()
	default:
		ns.PageUp()
	}
	return true
}

// nativeAt returns the native state of the topmost excluded region at a
// document position
func (c *Controller) nativeAt(x, y float64) *NativeScroll {
	for i := len(c.excluded) - 1; i >= 0; i-- {
		r := c.excluded[i]
		if r.Contains(x, y) {
			return c.native[r.Name]
		}
	}
	return nil
}

// ScrollTo animates to target; re-issuing while animating retargets at once
// Unknown targets are a no-op returning ErrUnknownTarget
func (c *Controller) ScrollTo(target Target, opts Options) error {
	c.mu.Lock()
	if !c.attached || c.destroyed {
		c.mu.Unlock()
		return ErrDetached
	}
	layout := c.layout
	c.mu.Unlock()

	if target == nil {
		return ErrUnknownTarget
	}
	pos, ok := target.Resolve(layout)
	if !ok {
		return ErrUnknownTarget
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return ErrDetached
	}

	to := c.clamp(pos + opts.Offset)
	if opts.Immediate || to == c.offset {
		c.offset = to
		c.target = to
		c.phase = PhaseIdle
		c.mu.Unlock()
		c.scrollListeners.Emit(to)
		c.doneListeners.Emit(to)
		return nil
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = c.cfg.Duration
	}
	easing := opts.Easing
	if easing == nil {
		easing = c.cfg.Easing
	}

	c.anim = animation{
		from:     c.offset,
		to:       to,
		duration: duration,
		easing:   easing,
	}
	c.target = to
	c.phase = PhaseAnimating
	c.mu.Unlock()
	return nil
}

// tick advances the animation or smoothing by one frame
func (c *Controller) tick(dt time.Duration) {
	c.mu.Lock()
	c.frames++

	before := c.offset
	done := false

	switch c.phase {
	case PhaseAnimating:
		c.anim.elapsed += dt
		if c.anim.elapsed >= c.anim.duration {
			c.offset = c.anim.to
			c.phase = PhaseIdle
			done = true
		} else {
			t := float64(c.anim.elapsed) / float64(c.anim.duration)
			c.offset = c.anim.from + (c.anim.to-c.anim.from)*c.anim.easing(t)
		}

	case PhaseSmoothing:
		alpha := 1 - math.Pow(1-c.cfg.Lerp, frame.Seconds(dt)*frame.DefaultRate)
		c.offset += (c.target - c.offset) * alpha
		if math.Abs(c.target-c.offset) < settleEpsilon {
			c.offset = c.target
			c.phase = PhaseIdle
		}
	}

	after := c.offset
	c.mu.Unlock()

	if after != before {
		c.scrollListeners.Emit(after)
	}
	if done {
		c.doneListeners.Emit(after)
	}
}

// Destroy releases input and stops the frame loop; no tick runs afterwards
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.attached = false
	c.phase = PhaseIdle
	cancel, cancelLayout := c.cancelInput, c.cancelLayout
	c.cancelInput, c.cancelLayout = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if cancelLayout != nil {
		cancelLayout()
	}
	c.ticker.Stop()
	c.scrollListeners.Clear()
	c.doneListeners.Clear()
}

// SetConfig replaces smoothing parameters; an animation in flight keeps its own
func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	c.cfg = cfg.normalized()
	c.mu.Unlock()
}

// OnScroll subscribes to offset changes
func (c *Controller) OnScroll(fn func(offset float64)) (cancel func()) {
	return c.scrollListeners.Add(fn)
}

// OnComplete subscribes to programmatic scroll completion
func (c *Controller) OnComplete(fn func(offset float64)) (cancel func()) {
	return c.doneListeners.Add(fn)
}

// Offset returns the current virtual offset in rows
func (c *Controller) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Row returns the offset rounded to a whole row
func (c *Controller) Row() int {
	return int(math.Round(c.Offset()))
}

// Phase returns the animation state
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Animating reports whether a programmatic scroll is in flight
func (c *Controller) Animating() bool {
	return c.Phase() == PhaseAnimating
}

// Progress returns offset / limit, 0 for documents that fit the viewport
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress()
}

func (c *Controller) progress() float64 {
	if c.limit <= 0 {
		return 0
	}
	return c.offset / c.limit
}

// State returns a snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Offset:   c.offset,
		Target:   c.target,
		Limit:    c.limit,
		Progress: c.progress(),
		Phase:    c.phase,
		Frames:   c.frames,
	}
}

// Frames returns the number of frame callbacks run
func (c *Controller) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Inputs returns the number of accepted inputs and how many went native
func (c *Controller) Inputs() (total, native uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputs, c.nativeInputs
}

// Native returns a copy of an excluded region's scroll state
func (c *Controller) Native(name string) (NativeScroll, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.native[name]
	if !ok {
		return NativeScroll{}, false
	}
	return *ns, true
}

// Excluded returns the current exclusion set
func (c *Controller) Excluded() []Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Region, len(c.excluded))
	copy(out, c.excluded)
	return out
}
