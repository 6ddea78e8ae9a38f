// Package observe provides an ordered listener list shared by the stores and
// event sources of the pointer subsystem
package observe

import "sync"

type entry[T any] struct {
	id uint64
	fn func(T)
}

// List holds listeners in registration order
// Safe for concurrent use; listeners run outside the lock so they may add or cancel
type List[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry[T]
}

// Add registers fn and returns its cancel function
// Cancel is idempotent
func (l *List[T]) Add(fn func(T)) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, entry[T]{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *List[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// Emit calls every listener registered at the time of the call
func (l *List[T]) Emit(v T) {
	l.mu.Lock()
	snapshot := make([]entry[T], len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len returns the number of registered listeners
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops all listeners
func (l *List[T]) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
