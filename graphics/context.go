// Package graphics defines the contract between the core renderer and the
// host window system. Platform adapters implement Surface; the render and
// kernel logic stays platform-independent and is never duplicated per
// adapter.
package graphics

// Surface is a drawable render target owned by the host.
type Surface interface {
	// MakeCurrent binds the surface's GL context to the calling thread.
	MakeCurrent()
	// FramebufferSize returns the current drawable size in pixels. A zero
	// size means no drawable is available this frame; the renderer skips
	// the frame silently and retries on the next tick.
	FramebufferSize() (int, int)
	// EDRCapable reports whether the surface can show colors brighter
	// than standard display white.
	EDRCapable() bool
	// Present shows the rendered frame and pumps window events.
	Present()
	ShouldClose() bool
	// Time returns seconds from a monotonic clock.
	Time() float64
	// Teardown releases the surface. The host must cancel any pollers and
	// warp loops before calling it.
	Teardown()
}
