package scroll

import (
	"math"
	"slices"
)

// PreventMarker is the class that opts a region out of virtual scrolling
const PreventMarker = "scroll-prevent"

// Region is a rectangle of the document in cells
type Region struct {
	Name    string
	Left    int
	Top     int
	Width   int
	Height  int
	Classes []string

	// Excluded regions scroll natively with their own content
	Excluded bool
	// Content is the inner row count of an excluded region
	Content int
}

// IsExcluded reports whether the region bypasses the virtual scroll
func (r Region) IsExcluded() bool {
	return r.Excluded || slices.Contains(r.Classes, PreventMarker)
}

// Contains reports whether document position (x, y) lies inside r
func (r Region) Contains(x, y float64) bool {
	return x >= float64(r.Left) && x < float64(r.Left+r.Width) &&
		y >= float64(r.Top) && y < float64(r.Top+r.Height)
}

// Layout describes the scrollable document
type Layout interface {
	// ViewportHeight is the visible row count
	ViewportHeight() int
	// ContentHeight is the total document row count
	ContentHeight() int
	// Anchor resolves a named position to a document row
	Anchor(name string) (row int, ok bool)
	// Regions lists document regions; only excluded ones affect scrolling
	Regions() []Region
	// OnChange registers fn for any layout mutation
	OnChange(fn func()) (cancel func())
}

// Target resolves to a document offset against a layout
type Target interface {
	Resolve(l Layout) (offset float64, ok bool)
}

// Anchor targets a named anchor
type Anchor string

// Resolve implements Target
func (a Anchor) Resolve(l Layout) (float64, bool) {
	if l == nil {
		return 0, false
	}
	row, ok := l.Anchor(string(a))
	return float64(row), ok
}

// Offset targets an absolute document offset
type Offset float64

// Resolve implements Target
func (o Offset) Resolve(Layout) (float64, bool) {
	v := float64(o)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// TargetFunc adapts a function to Target
type TargetFunc func(l Layout) (float64, bool)

// Resolve implements Target
func (f TargetFunc) Resolve(l Layout) (float64, bool) {
	return f(l)
}
