// Package frame provides the frame-driven ticker abstraction and the single UI
// loop that runs input tasks and per-frame callbacks on one goroutine
package frame

import "time"

// DefaultRate is the display refresh rate assumed when none is configured
const DefaultRate = 60

// FrameFunc is invoked once per frame with time elapsed since the previous frame
type FrameFunc func(dt time.Duration)

// Ticker delivers frame callbacks between Start and Stop
// Stop guarantees no tick begins after it returns
type Ticker interface {
	// Start registers fn for subsequent frames, replacing any previous callback
	Start(fn FrameFunc)

	// Stop unregisters the callback. Idempotent
	Stop()

	// Running reports whether the ticker is registered
	Running() bool
}

// Clock creates independent tickers sharing one frame source
type Clock interface {
	NewTicker() Ticker
}

// Interval converts a refresh rate in Hz to a frame interval
// Non-positive rates fall back to DefaultRate
func Interval(rate int) time.Duration {
	if rate <= 0 {
		rate = DefaultRate
	}
	return time.Second / time.Duration(rate)
}

// Seconds converts a frame delta to float seconds for integrators
func Seconds(dt time.Duration) float64 {
	return dt.Seconds()
}
