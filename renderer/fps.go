package renderer

import (
	"math"
	"sync/atomic"
)

// fpsWindow is how much wall-clock time each estimate averages over. The
// half-second window trades a little latency for a stable readout.
const fpsWindow = 0.5

// fpsEstimator keeps a rolling frames-per-second estimate. frame is called
// only from the render callback; value may be read from any goroutine. The
// published estimate lives in an atomic cell, so the single writer never
// takes a lock and the reader never sees a torn float.
type fpsEstimator struct {
	frames      int
	windowStart float64
	current     atomic.Uint64
}

// frame records one render-callback invocation at the given elapsed time in
// seconds since render start.
func (f *fpsEstimator) frame(now float64) {
	f.frames++
	window := now - f.windowStart
	if window >= fpsWindow {
		f.current.Store(math.Float64bits(float64(f.frames) / window))
		f.frames = 0
		f.windowStart = now
	}
}

func (f *fpsEstimator) value() float64 {
	return math.Float64frombits(f.current.Load())
}
