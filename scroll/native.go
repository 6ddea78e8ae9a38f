package scroll

// NativeScroll is the plain, un-smoothed scroll state of an excluded region
// Offsets move immediately by whole rows; there is no inertia
type NativeScroll struct {
	Offset  int // First visible row
	Total   int // Content rows
	Visible int // Viewport rows
}

// NewNativeScroll creates a clamped native scroll state
func NewNativeScroll(total, visible int) *NativeScroll {
	return &NativeScroll{Total: total, Visible: visible}
}

// ScrollBy adjusts offset by delta, clamping to valid range
func (s *NativeScroll) ScrollBy(delta int) {
	s.Offset += delta
	s.Clamp()
}

// ScrollTo sets offset to a specific row
func (s *NativeScroll) ScrollTo(pos int) {
	s.Offset = pos
	s.Clamp()
}

// Clamp ensures offset is within valid range
func (s *NativeScroll) Clamp() {
	s.Offset = ClampRows(s.Offset, s.Visible, s.Total)
}

// PageUp scrolls up by half the visible height
func (s *NativeScroll) PageUp() {
	s.ScrollBy(-PageDelta(s.Visible))
}

// PageDown scrolls down by half the visible height
func (s *NativeScroll) PageDown() {
	s.ScrollBy(PageDelta(s.Visible))
}

// Resize updates content and viewport rows and reclamps
func (s *NativeScroll) Resize(total, visible int) {
	s.Total = total
	s.Visible = visible
	s.Clamp()
}

// AtTop returns true if scrolled to top
func (s *NativeScroll) AtTop() bool {
	return s.Offset == 0
}

// AtBottom returns true if scrolled to bottom
func (s *NativeScroll) AtBottom() bool {
	if s.Total <= s.Visible {
		return true
	}
	return s.Offset >= s.Total-s.Visible
}

// PageDelta returns rows for a half-page scroll, at least 1
func PageDelta(visible int) int {
	return max(visible/2, 1)
}

// ClampRows bounds a row offset to [0, total-visible]
func ClampRows(offset, visible, total int) int {
	if total <= visible {
		return 0
	}
	return min(max(offset, 0), total-visible)
}
