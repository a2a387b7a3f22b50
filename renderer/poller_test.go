package renderer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fixedSource struct {
	fps float64
}

func (s *fixedSource) FPS() float64 { return s.fps }

func TestPollFPSDeliversEstimates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	var last atomic.Uint64
	done := make(chan struct{})
	go func() {
		defer close(done)
		PollFPS(ctx, &fixedSource{fps: 59.5}, time.Millisecond, func(fps float64) {
			last.Store(uint64(fps * 10))
			if calls.Add(1) >= 5 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
	if calls.Load() < 5 {
		t.Fatalf("poller delivered %d estimates, want at least 5", calls.Load())
	}
	if last.Load() != 595 {
		t.Errorf("last estimate = %v, want 59.5", float64(last.Load())/10)
	}
}

func TestPollFPSStopsPromptlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		PollFPS(ctx, &fixedSource{}, time.Hour, func(float64) {
			t.Error("callback fired after cancellation")
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller kept running on a cancelled context")
	}
}
