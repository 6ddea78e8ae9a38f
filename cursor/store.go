package cursor

import (
	"sync"

	"github.com/lixenwraith/folio/observe"
)

// State is the observable cursor state
// Label is only carried in ModeText
type State struct {
	Mode  Mode
	Label string
}

// Store is the single owner of cursor state
// Writes are last-write-wins; concurrent writers are not ordered
type Store struct {
	mu    sync.RWMutex
	state State

	listeners observe.List[State]
	writes    uint64
}

// NewStore creates a store in ModeDefault
func NewStore() *Store {
	return &Store{state: State{Mode: ModeDefault}}
}

// SetMode writes a new mode and optional label
// Unrecognized modes fall back to ModeDefault; identical writes do not notify
func (s *Store) SetMode(mode Mode, label ...string) {
	next := State{Mode: mode.Normalize()}
	if next.Mode == ModeText && len(label) > 0 {
		next.Label = label[0]
	}

	s.mu.Lock()
	if s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.writes++
	s.mu.Unlock()

	s.listeners.Emit(next)
}

// Reset returns the store to ModeDefault
func (s *Store) Reset() {
	s.SetMode(ModeDefault)
}

// State returns the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Mode returns the current mode
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Mode
}

// Changes returns the number of writes that changed state
func (s *Store) Changes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Subscribe registers fn for every state change and returns its cancel function
// fn runs synchronously on the writer's goroutine
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	return s.listeners.Add(fn)
}

// Subscribers returns the number of active subscriptions
func (s *Store) Subscribers() int {
	return s.listeners.Len()
}
