package capability

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/lixenwraith/folio/core"
	"github.com/lixenwraith/folio/observe"
)

// ErrNotTerminal is returned when stdin is not a tty
var ErrNotTerminal = errors.New("capability: stdin is not a terminal")

// MouseProber reports whether the screen receives mouse events
// tcell.Screen satisfies it
type MouseProber interface {
	HasMouse() bool
}

// Terminal derives pointer capability from the controlling terminal
// A terminal is fine-pointer capable when it is a tty, its TERM is not
// dumb or a bare console, and the screen reports mouse support
// Capability is re-queried on resume from suspend and on Recheck
type Terminal struct {
	mu     sync.Mutex
	prober MouseProber
	last   bool
	known  bool

	// Injectable for tests
	getenv func(string) string
	isTTY  func() bool

	watchers observe.List[bool]
	sigCh    chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
	watching bool
}

// NewTerminal creates a source probing prober; prober may be nil until the screen exists
func NewTerminal(prober MouseProber) *Terminal {
	return &Terminal{
		prober: prober,
		getenv: os.Getenv,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		done: make(chan struct{}),
	}
}

// SetProber replaces the mouse prober and rechecks
func (t *Terminal) SetProber(p MouseProber) {
	t.mu.Lock()
	t.prober = p
	t.mu.Unlock()
	t.Recheck()
}

// Fine implements Source
func (t *Terminal) Fine() (bool, error) {
	if !t.isTTY() {
		return false, ErrNotTerminal
	}

	termName := strings.ToLower(t.getenv("TERM"))
	switch {
	case termName == "", termName == "dumb":
		return false, nil
	case termName == "linux" && t.getenv("GPM_TTY") == "":
		// Bare VT console has no pointer without gpm
		return false, nil
	}

	t.mu.Lock()
	p := t.prober
	t.mu.Unlock()
	if p == nil {
		return false, ErrNoSource
	}
	return p.HasMouse(), nil
}

// Watch implements Source
// The first watcher starts the resume-signal listener
func (t *Terminal) Watch(fn func(bool)) func() {
	cancel := t.watchers.Add(fn)

	t.mu.Lock()
	start := !t.watching && len(resumeSignals) > 0
	if start {
		t.watching = true
		t.sigCh = make(chan os.Signal, 1)
	}
	t.mu.Unlock()

	if start {
		signal.Notify(t.sigCh, resumeSignals...)
		core.Go(t.listen)
	}
	return cancel
}

func (t *Terminal) listen() {
	for {
		select {
		case <-t.done:
			return
		case <-t.sigCh:
			t.Recheck()
		}
	}
}

// Recheck re-queries capability and notifies watchers on change
// Query errors are reported as coarse
func (t *Terminal) Recheck() {
	fine, err := t.Fine()
	if err != nil {
		fine = false
	}

	t.mu.Lock()
	changed := !t.known || t.last != fine
	t.last = fine
	t.known = true
	t.mu.Unlock()

	if changed {
		t.watchers.Emit(fine)
	}
}

// Close stops the signal listener
func (t *Terminal) Close() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		ch := t.sigCh
		t.mu.Unlock()
		if ch != nil {
			signal.Stop(ch)
		}
		close(t.done)
	})
}
