package capability

import (
	"sync"

	"github.com/lixenwraith/folio/observe"
)

// Fixed is a settable Source for tests and forced configurations
type Fixed struct {
	mu       sync.Mutex
	fine     bool
	err      error
	watchers observe.List[bool]
}

// NewFixed creates a source reporting fine
func NewFixed(fine bool) *Fixed {
	return &Fixed{fine: fine}
}

// Fine implements Source
func (f *Fixed) Fine() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.fine, nil
}

// Watch implements Source
func (f *Fixed) Watch(fn func(bool)) func() {
	return f.watchers.Add(fn)
}

// Set changes the reported capability and notifies watchers
func (f *Fixed) Set(fine bool) {
	f.mu.Lock()
	f.fine = fine
	f.err = nil
	f.mu.Unlock()
	f.watchers.Emit(fine)
}

// Fail makes subsequent queries return err
func (f *Fixed) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Watchers returns the number of registered watchers
func (f *Fixed) Watchers() int {
	return f.watchers.Len()
}
