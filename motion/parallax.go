package motion

import (
	"time"

	"github.com/lixenwraith/folio/frame"
	"github.com/lixenwraith/folio/physics"
)

// ParallaxSpring is the smoothing spring for scroll-linked offsets
func ParallaxSpring() physics.Spring {
	return physics.Spring{
		Stiffness: 100,
		Damping:   30,
		Mass:      0.5,
		RestSpeed: 0.01,
		RestDelta: 0.01,
	}
}

// Parallax maps an element's scroll progress through the viewport to a
// spring-smoothed output value
//
// Progress is 0 when the element's top reaches StartAt of the viewport height
// and 1 when its bottom reaches EndAt; the output interpolates From..To
type Parallax struct {
	Top    float64
	Height float64

	StartAt float64
	EndAt   float64

	From float64
	To   float64

	spring physics.Spring
	body   physics.Body
	primed bool
}

// NewParallax creates a parallax for an element at top with height, shifting
// from +5% to -35% of its height
func NewParallax(top, height float64) *Parallax {
	return &Parallax{
		Top:     top,
		Height:  height,
		StartAt: 0.8,
		EndAt:   0.2,
		From:    5,
		To:      -35,
		spring:  ParallaxSpring(),
	}
}

// Progress returns the clamped scroll progress for offset and viewport height
func (p *Parallax) Progress(offset, viewport float64) float64 {
	start := p.Top - p.StartAt*viewport
	end := p.Top + p.Height - p.EndAt*viewport
	if end <= start {
		if offset >= end {
			return 1
		}
		return 0
	}
	return clamp01((offset - start) / (end - start))
}

// Target returns the unsmoothed output for offset
func (p *Parallax) Target(offset, viewport float64) float64 {
	return p.From + (p.To-p.From)*p.Progress(offset, viewport)
}

// Update retargets the spring and advances it by dt
// The first update snaps to the target
func (p *Parallax) Update(offset, viewport float64, dt time.Duration) float64 {
	p.body.Target = p.Target(offset, viewport)
	if !p.primed {
		p.body.Snap()
		p.primed = true
		return p.body.Position
	}
	p.spring.Step(&p.body, frame.Seconds(dt))
	return p.body.Position
}

// Value returns the current smoothed output
func (p *Parallax) Value() float64 {
	return p.body.Position
}

// Shift converts the percent output to cells of the element height
func (p *Parallax) Shift() int {
	v := p.body.Position * p.Height / 100
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
