package frame

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/folio/core"
)

// taskQueueSize bounds pending input tasks before Post blocks
const taskQueueSize = 256

// Loop is the UI goroutine
// Posted tasks and frame callbacks never run concurrently with each other
type Loop struct {
	interval time.Duration

	tasks chan func()

	mu      sync.Mutex
	tickers []*loopTicker

	lastFrame time.Time
	frames    atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewLoop creates a loop firing frames at the given interval
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = Interval(DefaultRate)
	}
	return &Loop{
		interval: interval,
		tasks:    make(chan func(), taskQueueSize),
		stopChan: make(chan struct{}),
	}
}

// Start launches the loop goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop ends the loop and waits for the goroutine to exit
// Must not be called from a task or frame callback
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		if l.running.Load() {
			l.wg.Wait()
		}
		l.running.Store(false)
	})
}

// Running reports whether the loop goroutine is active
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Frames returns the number of frames dispatched so far
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Post queues fn to run on the loop goroutine
// Returns false if the loop has stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to finish
// Must not be called from the loop goroutine
func (l *Loop) Call(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}

	select {
	case <-done:
		return true
	case <-l.stopChan:
		return false
	}
}

// NewTicker creates a ticker driven by this loop's frames
func (l *Loop) NewTicker() Ticker {
	return &loopTicker{loop: l}
}

// Active returns the number of registered tickers
func (l *Loop) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tickers)
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.lastFrame = time.Now()

	for {
		select {
		case <-l.stopChan:
			return

		case fn := <-l.tasks:
			fn()

		case now := <-ticker.C:
			l.dispatch(now)
		}
	}
}

// dispatch runs one frame for every ticker registered when the frame began
func (l *Loop) dispatch(now time.Time) {
	dt := now.Sub(l.lastFrame)
	l.lastFrame = now
	l.frames.Add(1)

	l.mu.Lock()
	snapshot := make([]*loopTicker, len(l.tickers))
	copy(snapshot, l.tickers)
	l.mu.Unlock()

	for _, t := range snapshot {
		t.fire(dt)
	}
}

func (l *Loop) register(t *loopTicker) {
	l.mu.Lock()
	l.tickers = append(l.tickers, t)
	l.mu.Unlock()
}

func (l *Loop) unregister(t *loopTicker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.tickers {
		if existing == t {
			l.tickers = append(l.tickers[:i], l.tickers[i+1:]...)
			return
		}
	}
}

// loopTicker is a Ticker registered with a Loop
type loopTicker struct {
	loop   *Loop
	fn     atomic.Pointer[FrameFunc]
	active atomic.Bool
}

func (t *loopTicker) Start(fn FrameFunc) {
	if fn == nil {
		return
	}
	t.fn.Store(&fn)
	if t.active.CompareAndSwap(false, true) {
		t.loop.register(t)
	}
}

func (t *loopTicker) Stop() {
	if t.active.CompareAndSwap(true, false) {
		t.loop.unregister(t)
	}
}

func (t *loopTicker) Running() bool {
	return t.active.Load()
}

// fire re-checks active so a ticker stopped earlier in the same frame stays silent
func (t *loopTicker) fire(dt time.Duration) {
	if !t.active.Load() {
		return
	}
	if fn := t.fn.Load(); fn != nil {
		(*fn)(dt)
	}
}
