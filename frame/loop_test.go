package frame

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{120, time.Second / 120},
		{0, time.Second / DefaultRate},
		{-5, time.Second / DefaultRate},
	}

	for _, tt := range tests {
		if got := Interval(tt.rate); got != tt.want {
			t.Errorf("Interval(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestManualTickerStartStop(t *testing.T) {
	clock := NewManual()
	ticker := clock.NewTicker()

	count := 0
	ticker.Start(func(time.Duration) { count++ })

	clock.Frames(3, time.Second/60)
	if count != 3 {
		t.Fatalf("ticks = %d, want 3", count)
	}

	ticker.Stop()
	clock.Frames(5, time.Second/60)
	if count != 3 {
		t.Errorf("ticks after Stop = %d, want 3", count)
	}
	if clock.Active() != 0 {
		t.Errorf("Active() = %d, want 0", clock.Active())
	}
}

func TestManualTickerStopFromOtherCallback(t *testing.T) {
	clock := NewManual()
	first := clock.NewTicker()
	second := clock.NewTicker()

	secondCalls := 0
	first.Start(func(time.Duration) { second.Stop() })
	second.Start(func(time.Duration) { secondCalls++ })

	clock.Advance(time.Second / 60)
	if secondCalls != 0 {
		t.Errorf("ticker stopped earlier in the frame fired %d times", secondCalls)
	}
}

func TestManualTickerDoubleStart(t *testing.T) {
	clock := NewManual()
	ticker := clock.NewTicker()

	a, b := 0, 0
	ticker.Start(func(time.Duration) { a++ })
	ticker.Start(func(time.Duration) { b++ })

	clock.Advance(time.Millisecond)
	if clock.Active() != 1 {
		t.Errorf("Active() = %d, want 1", clock.Active())
	}
	if a != 0 || b != 1 {
		t.Errorf("callbacks a=%d b=%d, want a=0 b=1", a, b)
	}
}

func TestLoopPostAndCall(t *testing.T) {
	loop := NewLoop(time.Millisecond)
	loop.Start()
	defer loop.Stop()

	var value atomic.Int32
	if !loop.Post(func() { value.Store(1) }) {
		t.Fatal("Post on running loop returned false")
	}

	var seen int32
	if !loop.Call(func() { seen = value.Load() }) {
		t.Fatal("Call on running loop returned false")
	}
	if seen != 1 {
		t.Errorf("Call observed %d, want 1 (tasks run in order)", seen)
	}
}

func TestLoopTickerStopsFiring(t *testing.T) {
	loop := NewLoop(time.Millisecond)
	loop.Start()
	defer loop.Stop()

	var count atomic.Int64
	ticker := loop.NewTicker()
	ticker.Start(func(time.Duration) { count.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for count.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if count.Load() < 3 {
		t.Fatalf("ticker fired %d times, want >= 3", count.Load())
	}

	// Stop on the loop goroutine so no frame is in flight
	loop.Call(ticker.Stop)
	stopped := count.Load()

	time.Sleep(20 * time.Millisecond)
	if got := count.Load(); got != stopped {
		t.Errorf("ticker fired %d more times after Stop", got-stopped)
	}
	if loop.Active() != 0 {
		t.Errorf("Active() = %d, want 0", loop.Active())
	}
}

func TestLoopStopRejectsPost(t *testing.T) {
	loop := NewLoop(time.Millisecond)
	loop.Start()
	loop.Stop()
	loop.Stop() // idempotent

	if loop.Post(func() {}) {
		t.Error("Post after Stop returned true")
	}
	if loop.Call(func() {}) {
		t.Error("Call after Stop returned true")
	}
	if loop.Running() {
		t.Error("Running() after Stop = true")
	}
}
