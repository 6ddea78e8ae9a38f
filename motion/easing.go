// Package motion provides easing curves and scroll-linked motion values
package motion

import "math"

// Easing maps normalized time [0,1] to normalized progress
type Easing func(t float64) float64

// Linear is the identity easing
func Linear(t float64) float64 {
	return clamp01(t)
}

// ExpoOut is the exponential ease-out used for smooth scrolling
// It reaches exactly 1 slightly before t = 1
func ExpoOut(t float64) float64 {
	t = clamp01(t)
	return math.Min(1, 1.001-math.Pow(2, -10*t))
}

// CubicBezier returns the css cubic-bezier(x1, y1, x2, y2) timing function
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	// Polynomial coefficients for x(s) and y(s)
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	solve := func(x float64) float64 {
		// Newton first, bisection when the slope flattens
		s := x
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - x
			if math.Abs(dx) < 1e-7 {
				return s
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}

		lo, hi := 0.0, 1.0
		s = x
		for i := 0; i < 50 && lo < hi; i++ {
			v := sampleX(s)
			if math.Abs(v-x) < 1e-7 {
				return s
			}
			if x > v {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return s
	}

	return func(t float64) float64 {
		t = clamp01(t)
		if t == 0 || t == 1 {
			return t
		}
		return sampleY(solve(t))
	}
}

// Curtain is the in-out curve of page transitions
var Curtain = CubicBezier(0.76, 0, 0.24, 1)

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
