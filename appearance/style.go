// Package appearance maps cursor modes to visual style descriptors
package appearance

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/folio/cursor"
)

// Shape is the cursor outline
type Shape uint8

const (
	ShapeRound Shape = iota
	ShapeSquare
)

func (s Shape) String() string {
	if s == ShapeSquare {
		return "square"
	}
	return "round"
}

// RGBA is a straight-alpha color
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Transparent is the zero-alpha color
var Transparent = RGBA{}

// Hex parses #RRGGBB as an opaque color
func Hex(s string) (RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("appearance: %w", err)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: 1}, nil
}

func mustHex(s string) RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsTransparent reports whether the color contributes nothing
func (c RGBA) IsTransparent() bool {
	return c.A <= 0
}

// Color returns the opaque color component
func (c RGBA) Color() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Over composites c onto bg
func (c RGBA) Over(bg colorful.Color) colorful.Color {
	a := math.Max(0, math.Min(1, c.A))
	return bg.BlendRgb(c.Color(), a).Clamped()
}

// String formats as css rgba()
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.R, c.G, c.B, c.A)
}

// Style describes how the decorated cursor is drawn
// Width and Height are in pixels before Scale
type Style struct {
	Width  float64
	Height float64
	Shape  Shape
	Fill   RGBA
	Stroke RGBA
	Scale  float64

	// Crosshair draws guide lines through the center
	Crosshair bool
	// Label shows the state label, uppercased, centered in the footprint
	Label bool
}

var (
	ink  = RGBA{R: 17, G: 17, B: 17}
	teal = RGBA{R: 102, G: 252, B: 241}
)

func withAlpha(c RGBA, a float64) RGBA {
	c.A = a
	return c
}

var styles = [...]Style{
	cursor.ModeDefault: {
		Width: 16, Height: 16, Shape: ShapeRound,
		Fill: withAlpha(ink, 0.8), Stroke: withAlpha(ink, 0.4), Scale: 1,
	},
	cursor.ModeButton: {
		Width: 60, Height: 60, Shape: ShapeRound,
		Fill: withAlpha(teal, 0.2), Stroke: withAlpha(teal, 0.8), Scale: 1,
	},
	cursor.ModeText: {
		Width: 100, Height: 100, Shape: ShapeRound,
		Fill: withAlpha(ink, 0.1), Stroke: withAlpha(ink, 0.3), Scale: 1,
		Label: true,
	},
	cursor.ModeCrosshair: {
		Width: 40, Height: 40, Shape: ShapeSquare,
		Fill: Transparent, Stroke: mustHex("#66FCF1"), Scale: 1.2,
		Crosshair: true,
	},
}

// Lookup returns the style for mode; unrecognized modes get the default style
func Lookup(mode cursor.Mode) Style {
	return styles[mode.Normalize()]
}

// Metric is the pixel size of one terminal cell
type Metric struct {
	CellWidth  float64
	CellHeight float64
}

// DefaultMetric approximates a common 8x16 monospace cell
var DefaultMetric = Metric{CellWidth: 8, CellHeight: 16}

// Cells projects the scaled style to a cell footprint, at least 1x1
func (s Style) Cells(m Metric) (w, h int) {
	if m.CellWidth <= 0 || m.CellHeight <= 0 {
		m = DefaultMetric
	}
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	w = int(math.Round(s.Width * scale / m.CellWidth))
	h = int(math.Round(s.Height * scale / m.CellHeight))
	return max(w, 1), max(h, 1)
}
