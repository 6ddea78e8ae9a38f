// Package render draws the decorated cursor into a terminal cell grid
package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is the subset of tcell.Screen the renderers write to
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	GetContent(x, y int) (primary rune, combining []rune, style tcell.Style, width int)
	Size() (width, height int)
}

// Paper is the document background assumed for cells without an RGB background
var Paper = colorful.Color{R: 0.96, G: 0.95, B: 0.93}

// background returns the RGB background of a cell, or fallback
func background(c Canvas, x, y int, fallback colorful.Color) colorful.Color {
	_, _, style, _ := c.GetContent(x, y)
	_, bg, _ := style.Decompose()
	if bg == tcell.ColorDefault || !bg.Valid() {
		return fallback
	}
	r, g, b := bg.RGB()
	if r < 0 {
		return fallback
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// inside reports whether (x, y) is on the canvas
func inside(c Canvas, x, y int) bool {
	w, h := c.Size()
	return x >= 0 && y >= 0 && x < w && y < h
}
