package app

import (
	"maps"
	"sync"

	"github.com/lixenwraith/folio/observe"
	"github.com/lixenwraith/folio/scroll"
)

// StaticLayout is a scroll.Layout over fixed content with a resizable viewport
type StaticLayout struct {
	mu       sync.RWMutex
	viewport int
	content  int
	anchors  map[string]int
	regions  []scroll.Region
	changes  observe.List[struct{}]
}

// NewStaticLayout creates a layout of content rows seen through viewport rows
func NewStaticLayout(viewport, content int) *StaticLayout {
	return &StaticLayout{
		viewport: viewport,
		content:  content,
		anchors:  make(map[string]int),
	}
}

// SetAnchor names a document row
func (l *StaticLayout) SetAnchor(name string, row int) {
	l.mu.Lock()
	l.anchors[name] = row
	l.mu.Unlock()
	l.changed()
}

// AddRegion appends a document region
func (l *StaticLayout) AddRegion(r scroll.Region) {
	l.mu.Lock()
	l.regions = append(l.regions, r)
	l.mu.Unlock()
	l.changed()
}

// SetViewport changes the visible row count
func (l *StaticLayout) SetViewport(rows int) {
	l.mu.Lock()
	l.viewport = rows
	l.mu.Unlock()
	l.changed()
}

// SetContent changes the document row count
func (l *StaticLayout) SetContent(rows int) {
	l.mu.Lock()
	l.content = rows
	l.mu.Unlock()
	l.changed()
}

// Replace swaps the whole layout and notifies once
func (l *StaticLayout) Replace(viewport, content int, anchors map[string]int, regions []scroll.Region) {
	l.mu.Lock()
	l.viewport, l.content = viewport, content
	l.anchors = maps.Clone(anchors)
	if l.anchors == nil {
		l.anchors = make(map[string]int)
	}
	l.regions = append([]scroll.Region(nil), regions...)
	l.mu.Unlock()
	l.changed()
}

// OnChange implements scroll.Layout
func (l *StaticLayout) OnChange(fn func()) (cancel func()) {
	return l.changes.Add(func(struct{}) { fn() })
}

// Listeners run outside the lock; they read back through the getters
func (l *StaticLayout) changed() {
	l.changes.Emit(struct{}{})
}

// ViewportHeight implements scroll.Layout
func (l *StaticLayout) ViewportHeight() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.viewport
}

// ContentHeight implements scroll.Layout
func (l *StaticLayout) ContentHeight() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.content
}

// Anchor implements scroll.Layout
func (l *StaticLayout) Anchor(name string) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	row, ok := l.anchors[name]
	return row, ok
}

// Regions implements scroll.Layout
func (l *StaticLayout) Regions() []scroll.Region {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]scroll.Region, len(l.regions))
	copy(out, l.regions)
	return out
}
