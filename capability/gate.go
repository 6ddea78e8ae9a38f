// Package capability decides whether the decorated pointer is shown, based on
// whether the primary pointing device supports fine positioning
package capability

import (
	"errors"
	"log"
	"sync"

	"github.com/lixenwraith/folio/observe"
)

// ErrNoSource is returned when no capability source is available
var ErrNoSource = errors.New("capability: no source")

// Source reports pointer capability
type Source interface {
	// Fine queries whether the pointing device is mouse-like
	Fine() (bool, error)

	// Watch registers fn for capability changes and returns its cancel function
	Watch(fn func(fine bool)) (cancel func())
}

// State is the gate state
type State uint8

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Gate tracks pointer capability as a two-state flag
// The most recent report wins immediately; query failure fails safe to Inactive
type Gate struct {
	mu      sync.Mutex
	source  Source
	state   State
	started bool
	lastErr error
	reports uint64

	cancelWatch func()
	listeners   observe.List[bool]
}

// NewGate creates an Inactive gate over source; source may be nil
func NewGate(source Source) *Gate {
	return &Gate{source: source}
}

// Start queries the source and subscribes to its changes
func (g *Gate) Start() {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return
	}
	g.started = true
	src := g.source
	g.mu.Unlock()

	if src == nil {
		g.fail(ErrNoSource)
		return
	}

	fine, err := src.Fine()
	if err != nil {
		g.fail(err)
	} else {
		g.Report(fine)
	}

	cancel := src.Watch(g.Report)

	g.mu.Lock()
	if !g.started {
		// Stopped while subscribing
		g.mu.Unlock()
		cancel()
		return
	}
	g.cancelWatch = cancel
	g.mu.Unlock()
}

// Stop releases the source subscription and deactivates the gate
func (g *Gate) Stop() {
	g.mu.Lock()
	if !g.started {
		g.mu.Unlock()
		return
	}
	g.started = false
	cancel := g.cancelWatch
	g.cancelWatch = nil
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	g.set(Inactive)
}

// Report applies a capability report
func (g *Gate) Report(fine bool) {
	g.mu.Lock()
	g.reports++
	g.lastErr = nil
	g.mu.Unlock()

	if fine {
		g.set(Active)
	} else {
		g.set(Inactive)
	}
}

func (g *Gate) fail(err error) {
	log.Printf("capability query failed, pointer decoration disabled: %v", err)
	g.mu.Lock()
	g.reports++
	g.lastErr = err
	g.mu.Unlock()
	g.set(Inactive)
}

func (g *Gate) set(s State) {
	g.mu.Lock()
	if g.state == s {
		g.mu.Unlock()
		return
	}
	g.state = s
	g.mu.Unlock()

	g.listeners.Emit(s == Active)
}

// Active reports whether decoration should run
func (g *Gate) Active() bool {
	return g.State() == Active
}

// State returns the current gate state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err returns the last query error, nil after a successful report
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Reports returns the number of capability reports processed
func (g *Gate) Reports() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reports
}

// OnChange subscribes to state transitions
func (g *Gate) OnChange(fn func(active bool)) (cancel func()) {
	return g.listeners.Add(fn)
}
