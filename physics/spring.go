// Package physics provides the damped spring integrator used for pointer
// smoothing and scroll-linked motion
package physics

import "math"

// MaxStep bounds a single integration step in seconds
// Larger frame deltas are sub-stepped so stiff springs stay stable
const MaxStep = 1.0 / 240

// Spring holds second-order damped oscillator parameters
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64

	// RestSpeed and RestDelta define when a body snaps to its target
	RestSpeed float64
	RestDelta float64
}

// DefaultSpring returns the pointer-tracking spring: stiff, over-damped, light
func DefaultSpring() Spring {
	return Spring{
		Stiffness: 200,
		Damping:   25,
		Mass:      0.3,
		RestSpeed: 0.001,
		RestDelta: 0.001,
	}
}

// Critical returns a spring with damping set to the critical value for the
// given stiffness and mass
func Critical(stiffness, mass float64) Spring {
	if mass <= 0 {
		mass = 1
	}
	return Spring{
		Stiffness: stiffness,
		Damping:   2 * math.Sqrt(stiffness*mass),
		Mass:      mass,
		RestSpeed: 0.001,
		RestDelta: 0.001,
	}
}

// DampingRatio returns damping / critical damping; 1 is critical
func (s Spring) DampingRatio() float64 {
	km := s.Stiffness * s.mass()
	if km <= 0 {
		return 0
	}
	return s.Damping / (2 * math.Sqrt(km))
}

// Valid reports whether the parameters can be integrated
func (s Spring) Valid() bool {
	return s.Stiffness > 0 && s.Damping >= 0 && s.Mass > 0
}

func (s Spring) mass() float64 {
	if s.Mass <= 0 {
		return 1
	}
	return s.Mass
}

// Body is one spring-driven axis
type Body struct {
	Position float64
	Velocity float64
	Target   float64
}

// Step advances b by dt seconds with semi-implicit Euler:
// velocity += ((target - position) * stiffness - velocity * damping) * h / mass
// position += velocity * h
// Returns true once the body has come to rest on its target
func (s Spring) Step(b *Body, dt float64) bool {
	if dt <= 0 {
		return s.AtRest(*b)
	}

	mass := s.mass()
	for dt > 0 {
		h := math.Min(dt, MaxStep)
		accel := ((b.Target-b.Position)*s.Stiffness - b.Velocity*s.Damping) / mass
		b.Velocity += accel * h
		b.Position += b.Velocity * h
		dt -= h
	}

	if s.AtRest(*b) {
		b.Position = b.Target
		b.Velocity = 0
		return true
	}
	return false
}

// AtRest reports whether b is within rest thresholds of its target
func (s Spring) AtRest(b Body) bool {
	return math.Abs(b.Target-b.Position) <= s.RestDelta &&
		math.Abs(b.Velocity) <= s.RestSpeed
}

// Snap places b on its target with zero velocity
func (b *Body) Snap() {
	b.Position = b.Target
	b.Velocity = 0
}
