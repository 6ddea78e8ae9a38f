package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/folio/core"
)

// DefaultDebounce coalesces editor save bursts into one reload
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads the config file when it changes on disk
// The parent directory is watched so rename-on-save editors are seen
type Watcher struct {
	mu       sync.Mutex
	path     string
	debounce time.Duration
	onChange func(Config)
	onError  func(error)

	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	reloads uint64
	failed  uint64
}

// NewWatcher creates a watcher for path; onChange receives each valid reload
func NewWatcher(path string, debounce time.Duration, onChange func(Config)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
	}
}

// OnError sets the handler for reload failures; the previous config stays in effect
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	w.onError = fn
	w.mu.Unlock()
}

// Name implements service.Service
func (w *Watcher) Name() string {
	return "config"
}

// Dependencies implements service.Service
func (w *Watcher) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: string - overrides the watched path (optional)
func (w *Watcher) Init(args ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(args) > 0 {
		if p, ok := args[0].(string); ok && p != "" {
			w.path = p
		}
	}
	if w.path == "" {
		return fmt.Errorf("config watcher: no path")
	}
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	w.path = abs

	if w.fsw != nil {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return fmt.Errorf("config watcher: %w", err)
	}
	w.fsw = fsw
	return nil
}

// Start implements service.Service
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.fsw == nil {
		return fmt.Errorf("config watcher: not initialized")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	fsw, stopCh, doneCh := w.fsw, w.stopCh, w.doneCh
	core.Go(func() { w.run(fsw, stopCh, doneCh) })
	return nil
}

// Stop implements service.Service
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw := w.fsw
	running := w.running
	stopCh, doneCh := w.stopCh, w.doneCh
	w.fsw = nil
	w.running = false
	w.mu.Unlock()

	if running {
		close(stopCh)
		<-doneCh
	}
	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

func (w *Watcher) run(fsw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-stopCh:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.Path() {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher: %v", err)

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	path := w.path
	onChange, onError := w.onChange, w.onError
	w.mu.Unlock()

	cfg, err := Load(path)
	if err != nil {
		w.mu.Lock()
		w.failed++
		w.mu.Unlock()
		log.Printf("config reload: %v", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	log.Printf("config reloaded from %s", path)
	if onChange != nil {
		onChange(cfg)
	}
}

// Path returns the absolute watched path after Init
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Stats returns successful and failed reload counts
func (w *Watcher) Stats() (reloads, failed uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads, w.failed
}
