package transition

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/folio/render"
	"github.com/lixenwraith/folio/terminal"
)

// Label is shown once the curtain is mostly closed
const Label = "TRANSITIONING"

var (
	iron  = colorful.Color{R: 0x3D / 255.0, G: 0x3D / 255.0, B: 0x3D / 255.0}
	steel = colorful.Color{R: 0xB0 / 255.0, G: 0xB8 / 255.0, B: 0xC1 / 255.0}
	chalk = colorful.Color{R: 0xEA / 255.0, G: 0xEA / 255.0, B: 0xEA / 255.0}
)

func encode(c colorful.Color, mode terminal.ColorMode) tcell.Color {
	r, g, b := c.RGB255()
	return mode.Color(r, g, b)
}

// Draw paints the strips, each closing from its center, over the canvas
// Returns false when idle
func (c *Curtain) Draw(cv render.Canvas, mode terminal.ColorMode) bool {
	c.mu.Lock()
	if c.phase == PhaseIdle {
		c.mu.Unlock()
		return false
	}
	cover := make([]float64, c.panels)
	for i := range cover {
		cover[i] = c.panel(i)
	}
	c.mu.Unlock()

	w, h := cv.Size()
	n := len(cover)
	mean := 0.0
	for i, p := range cover {
		mean += p
		x0 := i * w / n
		x1 := (i + 1) * w / n
		strip := x1 - x0
		filled := int(math.Round(p * float64(strip)))
		if filled <= 0 {
			continue
		}
		left := x0 + (strip-filled)/2

		color := iron
		if i%2 == 1 {
			color = steel
		}
		style := tcell.StyleDefault.Background(encode(color, mode))
		for y := 0; y < h; y++ {
			for x := left; x < left+filled; x++ {
				cv.SetContent(x, y, ' ', nil, style)
			}
		}
	}
	mean /= float64(n)

	if mean >= 0.5 {
		text := runewidth.Truncate(Label, w, "")
		x := (w - runewidth.StringWidth(text)) / 2
		y := h / 2
		for _, ch := range text {
			_, _, st, _ := cv.GetContent(x, y)
			cv.SetContent(x, y, ch, nil, st.Foreground(encode(chalk, mode)).Bold(true))
			x += runewidth.RuneWidth(ch)
		}
	}
	return true
}
