package app

import (
	"time"

	"github.com/lixenwraith/folio/cursor"
	"github.com/lixenwraith/folio/inspect"
	"github.com/lixenwraith/folio/scroll"
)

// Runner executes fn on the UI goroutine and waits; false if the loop is gone
// frame.Loop satisfies it
type Runner interface {
	Call(fn func()) bool
}

var _ inspect.Backend = (*Backend)(nil)

// Backend exposes a Subsystem to the inspector
type Backend struct {
	sys    *Subsystem
	runner Runner

	// Optional state from outside the subsystem
	Policy func() string
	Muted  func() bool
	Frames func() uint64
}

// NewBackend creates an inspector backend running calls through runner
func NewBackend(sys *Subsystem, runner Runner) *Backend {
	return &Backend{sys: sys, runner: runner}
}

// Snapshot implements inspect.Backend
func (b *Backend) Snapshot() (inspect.Snapshot, error) {
	var snap inspect.Snapshot
	if !b.runner.Call(func() { snap = b.snapshot() }) {
		return inspect.Snapshot{}, inspect.ErrUnavailable
	}
	return snap, nil
}

func (b *Backend) snapshot() inspect.Snapshot {
	s := b.sys
	st := s.Store.State()
	x, y := s.Tracker.Position()
	rx, ry, hasRaw := s.Tracker.Raw()
	sc := s.Scroller.State()

	snap := inspect.Snapshot{
		Cursor: inspect.CursorState{Mode: st.Mode.String(), Label: st.Label},
		Pointer: inspect.PointerState{
			X: x, Y: y,
			RawX: rx, RawY: ry,
			HasRaw:   hasRaw,
			Attached: s.Tracker.Attached(),
			Settled:  s.Tracker.Settled(),
		},
		Gate: inspect.GateState{Active: s.Gate.Active(), Policy: "auto"},
		Scroll: inspect.ScrollState{
			Offset:   sc.Offset,
			Target:   sc.Target,
			Limit:    sc.Limit,
			Progress: sc.Progress,
			Phase:    sc.Phase.String(),
		},
	}
	if err := s.Gate.Err(); err != nil {
		snap.Gate.Error = err.Error()
	}
	if b.Policy != nil {
		snap.Gate.Policy = b.Policy()
	}
	if b.Muted != nil {
		snap.Muted = b.Muted()
	}
	if b.Frames != nil {
		snap.Frames = b.Frames()
	} else {
		snap.Frames = sc.Frames
	}
	return snap
}

// SetCursor implements inspect.Backend
// Unknown modes fall back to default, as for any other writer
func (b *Backend) SetCursor(mode, label string) (inspect.CursorState, error) {
	var out inspect.CursorState
	ok := b.runner.Call(func() {
		b.sys.Store.SetMode(cursor.ParseMode(mode), label)
		st := b.sys.Store.State()
		out = inspect.CursorState{Mode: st.Mode.String(), Label: st.Label}
	})
	if !ok {
		return inspect.CursorState{}, inspect.ErrUnavailable
	}
	return out, nil
}

// ScrollTo implements inspect.Backend
func (b *Backend) ScrollTo(req inspect.ScrollRequest) error {
	var target scroll.Target
	if req.Anchor != "" {
		target = scroll.Anchor(req.Anchor)
	} else if req.Offset != nil {
		target = scroll.Offset(*req.Offset)
	}
	opts := scroll.Options{
		Duration:  time.Duration(req.DurationMS) * time.Millisecond,
		Immediate: req.Immediate,
	}

	var err error
	if !b.runner.Call(func() { err = b.sys.Scroller.ScrollTo(target, opts) }) {
		return inspect.ErrUnavailable
	}
	return err
}
