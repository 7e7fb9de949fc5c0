package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, func(context.Context, time.Time) {}); err == nil {
		t.Fatal("expected error for zero interval")
	}
	if _, err := New(time.Second, nil); err == nil {
		t.Fatal("expected error for nil tick function")
	}
	if _, err := New(time.Second, func(context.Context, time.Time) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStartRunsImmediateTickAndRepeats(t *testing.T) {
	var ticks atomic.Int32
	s, err := New(20*time.Millisecond, func(context.Context, time.Time) {
		ticks.Add(1)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Start() {
		t.Fatal("first Start should return true")
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := ticks.Load(); n < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", n)
	}
	if !s.IsRunning() {
		t.Fatal("scheduler should report running")
	}
}

func TestStartTwiceIsRejected(t *testing.T) {
	s, _ := New(time.Hour, func(context.Context, time.Time) {})

	if !s.Start() {
		t.Fatal("first Start should return true")
	}
	defer s.Stop()

	if s.Start() {
		t.Fatal("second Start should return false")
	}
}

func TestStopHaltsTicks(t *testing.T) {
	var ticks atomic.Int32
	s, _ := New(10*time.Millisecond, func(context.Context, time.Time) {
		ticks.Add(1)
	})

	s.Start()
	time.Sleep(50 * time.Millisecond)

	if !s.Stop() {
		t.Fatal("Stop on a running scheduler should return true")
	}
	if s.IsRunning() {
		t.Fatal("scheduler should report stopped")
	}

	after := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	if ticks.Load() != after {
		t.Fatal("ticks continued after Stop")
	}

	if s.Stop() {
		t.Fatal("Stop on a stopped scheduler should return false")
	}
}

func TestRestartAfterStop(t *testing.T) {
	var ticks atomic.Int32
	s, _ := New(10*time.Millisecond, func(context.Context, time.Time) {
		ticks.Add(1)
	})

	s.Start()
	s.Stop()
	before := ticks.Load()

	if !s.Start() {
		t.Fatal("restart should return true")
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() <= before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ticks.Load() <= before {
		t.Fatal("no ticks after restart")
	}
}

func TestTickPanicIsRecovered(t *testing.T) {
	var ticks atomic.Int32
	s, _ := New(10*time.Millisecond, func(context.Context, time.Time) {
		ticks.Add(1)
		panic("tick blew up")
	})

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := ticks.Load(); n < 2 {
		t.Fatalf("panicking tick stopped the scheduler after %d ticks", n)
	}
}
