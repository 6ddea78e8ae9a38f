package render

import (
	"math"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/folio/appearance"
	"github.com/lixenwraith/folio/cursor"
	"github.com/lixenwraith/folio/terminal"
)

// Position supplies the smoothed pointer position in cells
type Position interface {
	Position() (x, y float64)
}

// Visibility reports whether the decorated cursor may be drawn
type Visibility interface {
	Active() bool
}

// CursorRenderer draws the decorated cursor over whatever is already on the canvas
// Only cell backgrounds are tinted; runes under the footprint are kept
type CursorRenderer struct {
	mu sync.Mutex

	store *cursor.Store
	pos   Position
	gate  Visibility

	metric    appearance.Metric
	colorMode terminal.ColorMode
	paper     colorful.Color

	style  appearance.Style
	mode   cursor.Mode
	label  string
	cancel func()

	draws   uint64
	remaps  uint64
	skipped uint64
}

// Option configures a CursorRenderer
type Option func(*CursorRenderer)

// WithMetric sets the pixel size of a cell used to project styles
func WithMetric(m appearance.Metric) Option {
	return func(r *CursorRenderer) { r.metric = m }
}

// WithColorMode selects truecolor or palette output
func WithColorMode(m terminal.ColorMode) Option {
	return func(r *CursorRenderer) { r.colorMode = m }
}

// NewCursorRenderer creates a detached renderer showing the store's current mode
func NewCursorRenderer(store *cursor.Store, pos Position, gate Visibility, opts ...Option) *CursorRenderer {
	r := &CursorRenderer{
		store:     store,
		pos:       pos,
		gate:      gate,
		metric:    appearance.DefaultMetric,
		colorMode: terminal.ColorModeTrueColor,
		paper:     Paper,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.remap(store.State())
	return r
}

// Attach subscribes to cursor state changes
func (r *CursorRenderer) Attach() {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	cancel := r.store.Subscribe(r.remap)

	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	// Catch writes made before the subscription existed
	r.remap(r.store.State())
}

// Detach drops the state subscription
func (r *CursorRenderer) Detach() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *CursorRenderer) remap(s cursor.State) {
	st := appearance.Lookup(s.Mode)
	r.mu.Lock()
	r.style = st
	r.mode = s.Mode
	r.label = strings.ToUpper(s.Label)
	r.remaps++
	r.mu.Unlock()
}

// Style returns the style currently mapped from the store
func (r *CursorRenderer) Style() appearance.Style {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// Label returns the uppercased label shown in text mode
func (r *CursorRenderer) Label() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.style.Label {
		return ""
	}
	return r.label
}

// Bounds returns the footprint in cells centered on the smoothed position
func (r *CursorRenderer) Bounds() (left, top, width, height int) {
	r.mu.Lock()
	st, metric := r.style, r.metric
	r.mu.Unlock()
	return r.bounds(st, metric)
}

func (r *CursorRenderer) bounds(st appearance.Style, metric appearance.Metric) (left, top, width, height int) {
	x, y := r.pos.Position()
	width, height = st.Cells(metric)
	cx := int(math.Round(x))
	cy := int(math.Round(y))
	return cx - width/2, cy - height/2, width, height
}

// Draw paints the cursor for the current frame
// Returns false when nothing was drawn: gate inactive or footprint off canvas
func (r *CursorRenderer) Draw(c Canvas) bool {
	if r.gate != nil && !r.gate.Active() {
		r.mu.Lock()
		r.skipped++
		r.mu.Unlock()
		return false
	}

	r.mu.Lock()
	st, metric, mode := r.style, r.metric, r.colorMode
	paper := r.paper
	label := ""
	if st.Label {
		label = r.label
	}
	r.mu.Unlock()

	left, top, w, h := r.bounds(st, metric)
	drew := false

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			x, y := left+col, top+row
			if !inside(c, x, y) || !covers(st.Shape, w, h, col, row) {
				continue
			}
			paint := st.Fill
			if isEdge(st.Shape, w, h, col, row) {
				paint = st.Stroke
			}
			drew = true
			if paint.IsTransparent() {
				continue
			}
			r.tint(c, x, y, paint, paper, mode)
		}
	}

	if st.Crosshair {
		if r.crosshair(c, st, left, top, w, h, paper, mode) {
			drew = true
		}
	}
	if label != "" {
		r.drawLabel(c, st, label, left, top, w, h, paper, mode)
	}

	if drew {
		r.mu.Lock()
		r.draws++
		r.mu.Unlock()
	}
	return drew
}

// tint composites paint over the cell background and keeps its rune
func (r *CursorRenderer) tint(c Canvas, x, y int, paint appearance.RGBA, paper colorful.Color, mode terminal.ColorMode) {
	ch, comb, style, _ := c.GetContent(x, y)
	bg := paint.Over(background(c, x, y, paper))
	c.SetContent(x, y, ch, comb, style.Background(encode(bg, mode)))
}

func (r *CursorRenderer) crosshair(c Canvas, st appearance.Style, left, top, w, h int, paper colorful.Color, mode terminal.ColorMode) bool {
	cx, cy := left+w/2, top+h/2
	drew := false
	put := func(x, y int, ch rune) {
		if !inside(c, x, y) {
			return
		}
		_, _, style, _ := c.GetContent(x, y)
		fg := st.Stroke.Over(background(c, x, y, paper))
		c.SetContent(x, y, ch, nil, style.Foreground(encode(fg, mode)))
		drew = true
	}
	for x := left; x < left+w; x++ {
		put(x, cy, '─')
	}
	for y := top; y < top+h; y++ {
		put(cx, y, '│')
	}
	put(cx, cy, '┼')
	return drew
}

func (r *CursorRenderer) drawLabel(c Canvas, st appearance.Style, label string, left, top, w, h int, paper colorful.Color, mode terminal.ColorMode) {
	// Inner width leaves the stroke column on each side
	inner := max(w-2, 1)
	text := runewidth.Truncate(label, inner, "")
	x := left + (w-runewidth.StringWidth(text))/2
	y := top + h/2

	ink := st.Stroke
	ink.A = 1
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if inside(c, x, y) {
			_, _, style, _ := c.GetContent(x, y)
			fg := ink.Over(background(c, x, y, paper))
			c.SetContent(x, y, ch, nil, style.Foreground(encode(fg, mode)).Bold(true))
		}
		x += cw
	}
}

// Stats returns frames drawn, state remaps and frames suppressed by the gate
func (r *CursorRenderer) Stats() (draws, remaps, skipped uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws, r.remaps, r.skipped
}

// covers reports whether footprint cell (col, row) is part of the shape
func covers(shape appearance.Shape, w, h, col, row int) bool {
	if shape == appearance.ShapeSquare || w <= 2 || h <= 1 {
		return true
	}
	dx := (float64(col) + 0.5 - float64(w)/2) / (float64(w) / 2)
	dy := (float64(row) + 0.5 - float64(h)/2) / (float64(h) / 2)
	return dx*dx+dy*dy <= 1
}

// isEdge reports whether a covered cell borders the outside of the shape
// Footprints too small for an interior are all fill
func isEdge(shape appearance.Shape, w, h, col, row int) bool {
	if w <= 2 || h <= 2 {
		return false
	}
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nc, nr := col+d[0], row+d[1]
		if nc < 0 || nr < 0 || nc >= w || nr >= h || !covers(shape, w, h, nc, nr) {
			return true
		}
	}
	return false
}

func encode(c colorful.Color, mode terminal.ColorMode) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return mode.Color(r, g, b)
}
