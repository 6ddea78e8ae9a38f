package frame

import (
	"sync"
	"time"
)

// Manual is a deterministic Clock for tests; frames advance only when asked
type Manual struct {
	mu      sync.Mutex
	tickers []*manualTicker
	frames  uint64
	elapsed time.Duration
}

// NewManual creates a stopped manual clock
func NewManual() *Manual {
	return &Manual{}
}

// NewTicker implements Clock
func (m *Manual) NewTicker() Ticker {
	return &manualTicker{clock: m}
}

// Advance dispatches one frame of length dt to all running tickers
func (m *Manual) Advance(dt time.Duration) {
	m.mu.Lock()
	m.frames++
	m.elapsed += dt
	snapshot := make([]*manualTicker, len(m.tickers))
	copy(snapshot, m.tickers)
	m.mu.Unlock()

	for _, t := range snapshot {
		t.fire(dt)
	}
}

// Frames dispatches n frames of length dt
func (m *Manual) Frames(n int, dt time.Duration) {
	for i := 0; i < n; i++ {
		m.Advance(dt)
	}
}

// Active returns the number of running tickers
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Elapsed returns total simulated time
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsed
}

func (m *Manual) register(t *manualTicker) {
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
}

func (m *Manual) unregister(t *manualTicker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.tickers {
		if existing == t {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return
		}
	}
}

type manualTicker struct {
	clock  *Manual
	mu     sync.Mutex
	fn     FrameFunc
	active bool
}

func (t *manualTicker) Start(fn FrameFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.fn = fn
	wasActive := t.active
	t.active = true
	t.mu.Unlock()

	if !wasActive {
		t.clock.register(t)
	}
}

func (t *manualTicker) Stop() {
	t.mu.Lock()
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive {
		t.clock.unregister(t)
	}
}

func (t *manualTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *manualTicker) fire(dt time.Duration) {
	t.mu.Lock()
	fn, active := t.fn, t.active
	t.mu.Unlock()

	if active && fn != nil {
		fn(dt)
	}
}
