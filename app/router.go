// Package app assembles the pointer subsystem: it routes terminal input to the
// tracker, the scroller and the element map, and draws each frame
package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/folio/observe"
	"github.com/lixenwraith/folio/pointer"
	"github.com/lixenwraith/folio/scroll"
	"github.com/lixenwraith/folio/terminal"
)

// WheelRows is the row delta of one wheel notch
const WheelRows = 3

var (
	_ pointer.Source = (*Router)(nil)
	_ scroll.Source  = (*Router)(nil)
)

// Point is a viewport cell position
type Point struct {
	X, Y int
}

// Router fans translated terminal events out to typed listeners
// It satisfies pointer.Source and scroll.Source
type Router struct {
	moves   observe.List[Point]
	clicks  observe.List[Point]
	inputs  observe.List[scroll.Input]
	keys    observe.List[terminal.Event]
	resizes observe.List[Point]
	focus   observe.List[bool]

	// Middle-button drag scrolls like a touch swipe
	swipeY   int
	swiping  bool
	lastMove Point
	seen     bool
}

// NewRouter creates a router with no listeners
func NewRouter() *Router {
	return &Router{}
}

// OnMove implements pointer.Source
func (r *Router) OnMove(fn func(x, y float64)) (cancel func()) {
	return r.moves.Add(func(p Point) { fn(float64(p.X), float64(p.Y)) })
}

// OnInput implements scroll.Source
func (r *Router) OnInput(fn func(scroll.Input)) (cancel func()) {
	return r.inputs.Add(fn)
}

// OnHover registers fn for every pointer position change
func (r *Router) OnHover(fn func(Point)) (cancel func()) {
	return r.moves.Add(fn)
}

// OnClick registers fn for left-button presses
func (r *Router) OnClick(fn func(Point)) (cancel func()) {
	return r.clicks.Add(fn)
}

// OnKey registers fn for keys not consumed as scroll input
func (r *Router) OnKey(fn func(terminal.Event)) (cancel func()) {
	return r.keys.Add(fn)
}

// OnResize registers fn for screen size changes
func (r *Router) OnResize(fn func(size Point)) (cancel func()) {
	return r.resizes.Add(fn)
}

// OnFocus registers fn for terminal focus changes
func (r *Router) OnFocus(fn func(focused bool)) (cancel func()) {
	return r.focus.Add(fn)
}

// Listeners returns move and scroll-input listener counts
func (r *Router) Listeners() (moves, inputs int) {
	return r.moves.Len(), r.inputs.Len()
}

// Last returns the most recent pointer position
func (r *Router) Last() (Point, bool) {
	return r.lastMove, r.seen
}

// Dispatch routes one event; call from the UI goroutine
func (r *Router) Dispatch(ev terminal.Event) {
	switch ev.Type {
	case terminal.EventMouse:
		r.mouse(ev)
	case terminal.EventKey:
		r.key(ev)
	case terminal.EventResize:
		r.resizes.Emit(Point{X: ev.Width, Y: ev.Height})
	case terminal.EventFocus:
		r.focus.Emit(ev.Focused)
	}
}

func (r *Router) mouse(ev terminal.Event) {
	p := Point{X: ev.X, Y: ev.Y}

	if ev.Action == terminal.MouseActionWheel {
		delta := float64(WheelRows)
		if ev.Button == terminal.MouseBtnWheelUp {
			delta = -delta
		}
		r.inputs.Emit(scroll.Input{Kind: scroll.KindWheel, Delta: delta, X: float64(p.X), Y: float64(p.Y)})
		return
	}

	switch {
	case ev.Action == terminal.MouseActionPress && ev.Button == terminal.MouseBtnMiddle:
		r.swiping, r.swipeY = true, p.Y
	case ev.Action == terminal.MouseActionDrag && r.swiping:
		if dy := r.swipeY - p.Y; dy != 0 {
			r.inputs.Emit(scroll.Input{Kind: scroll.KindTouch, Delta: float64(dy), X: float64(p.X), Y: float64(p.Y)})
			r.swipeY = p.Y
		}
	case ev.Action == terminal.MouseActionRelease:
		r.swiping = false
	}

	if !r.seen || p != r.lastMove {
		r.lastMove, r.seen = p, true
		r.moves.Emit(p)
	}
	if ev.Action == terminal.MouseActionPress && ev.Button == terminal.MouseBtnLeft {
		r.clicks.Emit(p)
	}
}

func (r *Router) key(ev terminal.Event) {
	in := scroll.Input{Kind: scroll.KindKey}
	switch ev.Key {
	case tcell.KeyPgDn:
		in.Pages = 1
	case tcell.KeyPgUp:
		in.Pages = -1
	case tcell.KeyDown:
		in.Delta = 1
	case tcell.KeyUp:
		in.Delta = -1
	case tcell.KeyHome:
		in.Edge = scroll.EdgeTop
	case tcell.KeyEnd:
		in.Edge = scroll.EdgeBottom
	case tcell.KeyRune:
		switch ev.Rune {
		case ' ':
			in.Pages = 1
		case 'j':
			in.Delta = 1
		case 'k':
			in.Delta = -1
		case 'g':
			in.Edge = scroll.EdgeTop
		case 'G':
			in.Edge = scroll.EdgeBottom
		default:
			r.keys.Emit(ev)
			return
		}
	default:
		r.keys.Emit(ev)
		return
	}
	if r.seen {
		// Page keys scroll the excluded region under the pointer
		in.X, in.Y, in.Pointer = float64(r.lastMove.X), float64(r.lastMove.Y), true
	}
	r.inputs.Emit(in)
}
