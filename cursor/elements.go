package cursor

import "sync"

// Cues plays interaction sounds; implementations must never fail loudly
type Cues interface {
	PlayHover()
	PlayClick()
}

// Element is an interactive rectangle in document cells
type Element struct {
	ID     string
	X, Y   int
	Width  int
	Height int
	Mode   Mode
	Label  string
}

// Contains reports whether document cell (x, y) lies inside e
func (e Element) Contains(x, y int) bool {
	return x >= e.X && x < e.X+e.Width && y >= e.Y && y < e.Y+e.Height
}

// ElementMap hit-tests pointer positions against registered elements and
// drives enter/leave mode writes into a Store
type ElementMap struct {
	mu       sync.Mutex
	store    *Store
	cues     Cues
	elements []Element
	hovered  int // index into elements, -1 if none
}

// NewElementMap creates a map writing into store; cues may be nil
func NewElementMap(store *Store, cues Cues) *ElementMap {
	return &ElementMap{
		store:   store,
		cues:    cues,
		hovered: -1,
	}
}

// Set replaces the registered elements
// The hovered element is left, since its geometry may no longer apply
func (m *ElementMap) Set(elements []Element) {
	m.mu.Lock()
	leaving := m.hovered >= 0
	m.elements = append(m.elements[:0], elements...)
	m.hovered = -1
	m.mu.Unlock()

	if leaving {
		m.store.Reset()
	}
}

// hit returns the topmost element index at (x, y); later registrations are on top
func (m *ElementMap) hit(x, y int) int {
	for i := len(m.elements) - 1; i >= 0; i-- {
		if m.elements[i].Contains(x, y) {
			return i
		}
	}
	return -1
}

// Hover processes a pointer position in document cells
// Returns the hovered element, if any
func (m *ElementMap) Hover(x, y int) (Element, bool) {
	m.mu.Lock()
	idx := m.hit(x, y)
	prev := m.hovered
	m.hovered = idx
	var el Element
	if idx >= 0 {
		el = m.elements[idx]
	}
	m.mu.Unlock()

	if idx == prev {
		return el, idx >= 0
	}

	if idx < 0 {
		m.store.Reset()
		return el, false
	}
	// Element to element is a single write
	m.store.SetMode(el.Mode, el.Label)
	if m.cues != nil {
		m.cues.PlayHover()
	}
	return el, true
}

// Leave clears hover state, e.g. when the pointer leaves the window
func (m *ElementMap) Leave() {
	m.mu.Lock()
	prev := m.hovered
	m.hovered = -1
	m.mu.Unlock()

	if prev >= 0 {
		m.store.Reset()
	}
}

// Click returns the element under (x, y) and plays the click cue on a hit
func (m *ElementMap) Click(x, y int) (Element, bool) {
	m.mu.Lock()
	idx := m.hit(x, y)
	var el Element
	if idx >= 0 {
		el = m.elements[idx]
	}
	m.mu.Unlock()

	if idx < 0 {
		return Element{}, false
	}
	if m.cues != nil {
		m.cues.PlayClick()
	}
	return el, true
}

// Hovered returns the currently hovered element
func (m *ElementMap) Hovered() (Element, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hovered < 0 {
		return Element{}, false
	}
	return m.elements[m.hovered], true
}
