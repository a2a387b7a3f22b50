package renderer

import (
	"context"
	"time"
)

// Source yields a current FPS estimate. *Renderer implements it.
type Source interface {
	FPS() float64
}

// DefaultPollInterval is how often PollFPS samples the estimate.
const DefaultPollInterval = 100 * time.Millisecond

// PollFPS feeds fn with the current estimate at roughly the given interval
// until ctx is cancelled. It holds src as a non-owning reference and just
// skips ticks when it is absent, so the poller can never outlive-and-crash
// a renderer that was torn down first; the host is still expected to cancel
// ctx at teardown so the goroutine terminates promptly.
//
// Run it on its own goroutine; fn is called from that goroutine.
func PollFPS(ctx context.Context, src Source, interval time.Duration, fn func(fps float64)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if src == nil || fn == nil {
				continue
			}
			fn(src.FPS())
		}
	}
}
