package scroll

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/observe"
)

const frameDt = time.Second / 60

type testLayout struct {
	viewport int
	content  int
	anchors  map[string]int
	regions  []Region
	changes  observe.List[struct{}]
}

func (l *testLayout) OnChange(fn func()) func() {
	return l.changes.Add(func(struct{}) { fn() })
}

func (l *testLayout) addRegion(r Region) {
	l.regions = append(l.regions, r)
	l.changes.Emit(struct{}{})
}

func (l *testLayout) ViewportHeight() int { return l.viewport }
func (l *testLayout) ContentHeight() int  { return l.content }
func (l *testLayout) Regions() []Region   { return l.regions }
func (l *testLayout) Anchor(name string) (int, bool) {
	row, ok := l.anchors[name]
	return row, ok
}

type testSource struct {
	listeners observe.List[Input]
}

func (s *testSource) OnInput(fn func(Input)) func() { return s.listeners.Add(fn) }
func (s *testSource) send(in Input)                { s.listeners.Emit(in) }

func newTestLayout() *testLayout {
	return &testLayout{
		viewport: 40,
		content:  400,
		anchors: map[string]int{
			"work":    100,
			"about":   250,
			"contact": 390,
		},
		regions: []Region{
			{Name: "gallery", Left: 0, Top: 10, Width: 30, Height: 10, Excluded: true, Content: 50},
			{Name: "code", Left: 40, Top: 10, Width: 30, Height: 10, Classes: []string{"card", PreventMarker}, Content: 5},
			{Name: "hero", Left: 0, Top: 0, Width: 80, Height: 10},
		},
	}
}

func newTestController(t *testing.T) (*Controller, *frame.Manual, *testSource) {
	t.Helper()
	clock := frame.NewManual()
	src := &testSource{}
	c := New(clock.NewTicker(), DefaultConfig())
	if err := c.Attach(src, newTestLayout()); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return c, clock, src
}

func TestScrollToReachesTargetExactly(t *testing.T) {
	c, clock, _ := newTestController(t)

	if err := c.ScrollTo(Anchor("work"), Options{Duration: NavigationDuration}); err != nil {
		t.Fatalf("ScrollTo: %v", err)
	}
	if !c.Animating() {
		t.Fatal("not animating after ScrollTo")
	}

	// 0.8s at 60fps is 48 frames
	clock.Frames(47, frameDt)
	if !c.Animating() {
		t.Error("animation finished early")
	}
	clock.Frames(2, frameDt)

	if c.Animating() {
		t.Error("still animating after duration elapsed")
	}
	if c.Offset() != 100 {
		t.Errorf("Offset() = %v, want exactly 100", c.Offset())
	}
}

func TestScrollToOffsetOption(t *testing.T) {
	c, clock, _ := newTestController(t)
	c.ScrollTo(Anchor("about"), Options{Offset: -5})
	clock.Frames(60, frameDt)

	if c.Offset() != 245 {
		t.Errorf("Offset() = %v, want 245", c.Offset())
	}
}

func TestScrollToRetargetsLastWins(t *testing.T) {
	c, clock, _ := newTestController(t)

	c.ScrollTo(Anchor("about"), Options{})
	clock.Frames(10, frameDt)
	c.ScrollTo(Anchor("work"), Options{})

	clock.Frames(120, frameDt)
	if c.Offset() != 100 {
		t.Errorf("settled at %v, want work (100) not about (250)", c.Offset())
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", c.Phase())
	}
}

func TestScrollToUnknownTargetIsNoop(t *testing.T) {
	c, clock, _ := newTestController(t)

	err := c.ScrollTo(Anchor("missing"), Options{})
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("error = %v, want ErrUnknownTarget", err)
	}
	if c.Animating() {
		t.Fatal("unknown target left the controller animating")
	}

	// An in-flight animation is untouched
	c.ScrollTo(Anchor("work"), Options{})
	clock.Advance(frameDt)
	c.ScrollTo(nil, Options{})
	if !c.Animating() {
		t.Error("nil target cancelled the running animation")
	}
	clock.Frames(60, frameDt)
	if c.Offset() != 100 {
		t.Errorf("Offset() = %v, want 100", c.Offset())
	}
}

func TestScrollToClampsToLimit(t *testing.T) {
	c, clock, _ := newTestController(t)

	// contact at 390 exceeds the 360 limit
	c.ScrollTo(Anchor("contact"), Options{Immediate: true})
	if c.Offset() != 360 {
		t.Errorf("Offset() = %v, want clamped 360", c.Offset())
	}

	c.ScrollTo(Offset(-50), Options{})
	clock.Frames(60, frameDt)
	if c.Offset() != 0 {
		t.Errorf("Offset() = %v, want 0", c.Offset())
	}
}

func TestInputOverridesAnimation(t *testing.T) {
	c, clock, src := newTestController(t)

	c.ScrollTo(Anchor("about"), Options{})
	clock.Frames(5, frameDt)
	mid := c.Offset()

	src.send(Input{Kind: KindWheel, Delta: 3, X: 70, Y: 30})
	if c.Animating() {
		t.Fatal("input did not cancel the programmatic animation")
	}

	clock.Frames(600, frameDt)
	want := mid + 3
	if math.Abs(c.Offset()-want) > 1e-9 {
		t.Errorf("Offset() = %v, want %v (animation position + delta)", c.Offset(), want)
	}
}

func TestInputSmoothing(t *testing.T) {
	c, clock, src := newTestController(t)

	src.send(Input{Kind: KindWheel, Delta: 10, X: 70, Y: 30})
	clock.Advance(frameDt)

	first := c.Offset()
	if math.Abs(first-0.8) > 1e-6 {
		t.Errorf("offset after one frame = %v, want 0.8 (lerp 0.08)", first)
	}

	clock.Frames(600, frameDt)
	if c.Offset() != 10 || c.Phase() != PhaseIdle {
		t.Errorf("settled at %v phase %v, want 10 idle", c.Offset(), c.Phase())
	}
}

func TestInputMultipliersAndKeys(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want float64
	}{
		{"wheel", Input{Kind: KindWheel, Delta: 4, X: 70, Y: 30}, 4},
		{"touch doubled", Input{Kind: KindTouch, Delta: 4, X: 70, Y: 30}, 8},
		{"page down", Input{Kind: KindKey, Pages: 1}, 39},
		{"end", Input{Kind: KindKey, Edge: EdgeBottom}, 360},
		{"up past top", Input{Kind: KindKey, Delta: -5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock, src := newTestController(t)
			src.send(tt.in)
			clock.Frames(600, frameDt)
			if c.Offset() != tt.want {
				t.Errorf("Offset() = %v, want %v", c.Offset(), tt.want)
			}
		})
	}
}

func TestExcludedRegionsScrollNatively(t *testing.T) {
	c, clock, src := newTestController(t)

	// Pointer inside gallery (excluded flag)
	src.send(Input{Kind: KindWheel, Delta: 3, X: 5, Y: 12})
	// Pointer inside code (marker class); content fits, so native stays at 0
	src.send(Input{Kind: KindWheel, Delta: 3, X: 45, Y: 12})
	clock.Frames(10, frameDt)

	if c.Offset() != 0 || c.Phase() != PhaseIdle {
		t.Errorf("virtual scroll moved for excluded input: offset %v phase %v", c.Offset(), c.Phase())
	}

	gallery, ok := c.Native("gallery")
	if !ok || gallery.Offset != 3 {
		t.Errorf("gallery native = %+v, %v, want offset 3", gallery, ok)
	}
	code, ok := c.Native("code")
	if !ok || code.Offset != 0 {
		t.Errorf("code native = %+v, %v, want offset 0", code, ok)
	}
	if _, ok := c.Native("hero"); ok {
		t.Error("non-excluded region has native state")
	}

	total, native := c.Inputs()
	if total != 2 || native != 2 {
		t.Errorf("Inputs() = %d, %d, want 2, 2", total, native)
	}
}

func TestExcludedRegionFollowsDocumentOffset(t *testing.T) {
	c, _, src := newTestController(t)
	c.ScrollTo(Offset(100), Options{Immediate: true})

	// Viewport row 12 is document row 112, outside the gallery
	src.send(Input{Kind: KindWheel, Delta: 2, X: 5, Y: 12})
	if _, native := c.Inputs(); native != 0 {
		t.Error("input routed to a region scrolled out of view")
	}
}

func TestRelayoutPicksUpMarkers(t *testing.T) {
	clock := frame.NewManual()
	layout := newTestLayout()
	c := New(clock.NewTicker(), DefaultConfig())
	c.Attach(&testSource{}, layout)

	if len(c.Excluded()) != 2 {
		t.Fatalf("Excluded() = %d regions, want 2", len(c.Excluded()))
	}

	layout.regions[2].Classes = []string{PreventMarker, "hero"}
	layout.regions[2].Content = 30
	layout.content = 100
	c.Relayout()

	if len(c.Excluded()) != 3 {
		t.Errorf("Excluded() after relayout = %d regions, want 3", len(c.Excluded()))
	}
	if st := c.State(); st.Limit != 60 {
		t.Errorf("Limit = %v, want 60", st.Limit)
	}
}

func TestLayoutChangeRelayouts(t *testing.T) {
	clock := frame.NewManual()
	layout := newTestLayout()
	src := &testSource{}
	c := New(clock.NewTicker(), DefaultConfig())
	if err := c.Attach(src, layout); err != nil {
		t.Fatal(err)
	}

	layout.addRegion(Region{Name: "late", Left: 0, Top: 30, Width: 30, Height: 5, Excluded: true, Content: 20})
	if len(c.Excluded()) != 3 {
		t.Fatalf("Excluded() = %d regions, want 3", len(c.Excluded()))
	}

	src.send(Input{Kind: KindWheel, Delta: 3, X: 5, Y: 32})
	if ns, ok := c.Native("late"); !ok || ns.Offset != 3 {
		t.Errorf("late native = %+v, %v, want offset 3", ns, ok)
	}
	if c.State().Target != 0 {
		t.Errorf("virtual target = %v, want 0", c.State().Target)
	}

	c.Destroy()
	if n := layout.changes.Len(); n != 0 {
		t.Errorf("layout listeners after Destroy = %d", n)
	}
}

func TestPageKeysUnderPointer(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantNative int
		wantTarget float64
	}{
		{"page down in gallery", Input{Kind: KindKey, Pages: 1, X: 5, Y: 12, Pointer: true}, 5, 0},
		{"page up in gallery", Input{Kind: KindKey, Pages: -1, X: 5, Y: 12, Pointer: true}, 0, 0},
		{"page down without pointer", Input{Kind: KindKey, Pages: 1, X: 5, Y: 12}, 0, 39},
		{"page down outside regions", Input{Kind: KindKey, Pages: 1, X: 5, Y: 30, Pointer: true}, 0, 39},
		{"line key in gallery", Input{Kind: KindKey, Delta: 1, X: 5, Y: 12, Pointer: true}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, src := newTestController(t)
			src.send(tt.in)
			gallery, _ := c.Native("gallery")
			if gallery.Offset != tt.wantNative {
				t.Errorf("gallery offset = %d, want %d", gallery.Offset, tt.wantNative)
			}
			if got := c.State().Target; got != tt.wantTarget {
				t.Errorf("target = %v, want %v", got, tt.wantTarget)
			}
		})
	}
}

func TestDestroyStopsFrames(t *testing.T) {
	c, clock, src := newTestController(t)

	// The loop runs without any pending scroll
	clock.Frames(5, frameDt)
	if c.Frames() != 5 {
		t.Fatalf("Frames() = %d, want 5", c.Frames())
	}

	c.ScrollTo(Anchor("work"), Options{})
	clock.Frames(3, frameDt)
	c.Destroy()
	frozen := c.Frames()

	clock.Frames(100, frameDt)
	if c.Frames() != frozen {
		t.Errorf("frame callback ran after Destroy: %d -> %d", frozen, c.Frames())
	}
	if clock.Active() != 0 {
		t.Errorf("tickers still registered: %d", clock.Active())
	}
	if src.listeners.Len() != 0 {
		t.Errorf("input listeners still registered: %d", src.listeners.Len())
	}
	if c.Animating() {
		t.Error("destroyed controller still animating")
	}
	if err := c.ScrollTo(Anchor("about"), Options{}); !errors.Is(err, ErrDetached) {
		t.Errorf("ScrollTo after Destroy error = %v, want ErrDetached", err)
	}
}

func TestOnScrollAndComplete(t *testing.T) {
	c, clock, _ := newTestController(t)

	scrolls, completes := 0, 0
	var last float64
	c.OnScroll(func(float64) { scrolls++ })
	c.OnComplete(func(off float64) { completes++; last = off })

	c.ScrollTo(Anchor("work"), Options{})
	clock.Frames(60, frameDt)

	if scrolls == 0 {
		t.Error("no scroll notifications")
	}
	if completes != 1 || last != 100 {
		t.Errorf("completes = %d at %v, want 1 at 100", completes, last)
	}
}

func TestProgress(t *testing.T) {
	c, _, _ := newTestController(t)
	c.ScrollTo(Offset(180), Options{Immediate: true})
	if got := c.Progress(); got != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", got)
	}
}

func TestNativeScroll(t *testing.T) {
	s := NewNativeScroll(50, 10)
	s.PageDown()
	if s.Offset != 5 {
		t.Errorf("PageDown offset = %d, want 5", s.Offset)
	}
	s.ScrollTo(100)
	if !s.AtBottom() || s.Offset != 40 {
		t.Errorf("ScrollTo(100) offset = %d, want 40 at bottom", s.Offset)
	}
	s.PageUp()
	s.ScrollBy(-100)
	if !s.AtTop() {
		t.Error("not at top after scrolling past it")
	}
	s.Resize(5, 10)
	if !s.AtBottom() || s.Offset != 0 {
		t.Error("content that fits should pin to zero")
	}
}
