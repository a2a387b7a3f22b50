// Package warp animates the press-and-hold transition between the idle
// parameter set and the fixed warp targets. The machine mutates the shared
// configuration on every tick; the renderer simply reads whatever values
// are current when it packs uniforms.
package warp

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alextrubacs/FlowTunnel/config"
	"github.com/alextrubacs/FlowTunnel/feedback"
)

// Phase is the current leg of the transition.
type Phase int

const (
	Idle Phase = iota
	RampingUp
	Cruising
	RampingDown
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case RampingUp:
		return "ramping-up"
	case Cruising:
		return "cruising"
	case RampingDown:
		return "ramping-down"
	default:
		return "unknown"
	}
}

const (
	rampUpDuration   = 3.0
	rampDownDuration = 2.5
	// TickInterval is the nominal cadence of the tick loop. Ticks use the
	// real measured delta, so jittery timers only affect smoothness, not
	// the transition length.
	TickInterval = time.Second / 60
)

// Full-warp values for the five animated fields. Density and the event
// horizon radius are never touched by warp.
const (
	targetSpeed   = 3.0
	targetStretch = 2.5
	targetBlur    = 0.8
	targetSize    = 0.25
	targetWarp    = 2.0
)

// Machine is the warp transition state machine. Press/Release arrive from
// host input; Tick runs from the loop goroutine. All state is guarded by
// one mutex; none of this is on the render path.
type Machine struct {
	mu         sync.Mutex
	cfg        *config.Config
	pulser     feedback.Pulser
	pressed    bool
	progress   float64
	snapshot   config.Config
	sincePulse float64

	looping atomic.Bool
}

// NewMachine binds a machine to the configuration it animates. A nil
// pulser disables feedback.
func NewMachine(cfg *config.Config, pulser feedback.Pulser) *Machine {
	if pulser == nil {
		pulser = feedback.Silent{}
	}
	return &Machine{cfg: cfg, pulser: pulser}
}

// Press registers the warp input going down. Entering the ramp from Idle
// snapshots the live configuration as the interpolation base; re-pressing
// mid-ramp-down resumes against the original snapshot.
func (m *Machine) Press() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pressed && m.progress == 0 {
		m.snapshot = *m.cfg
		m.sincePulse = 0
	}
	m.pressed = true
}

// Release registers the warp input going up.
func (m *Machine) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = false
}

// Pressed reports whether the warp input is currently held.
func (m *Machine) Pressed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pressed
}

// Progress returns the raw (un-eased) transition progress in [0,1].
func (m *Machine) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

// Phase returns the current transition phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phaseLocked()
}

func (m *Machine) phaseLocked() Phase {
	switch {
	case m.pressed && m.progress >= 1:
		return Cruising
	case m.pressed:
		return RampingUp
	case m.progress > 0:
		return RampingDown
	default:
		return Idle
	}
}

// Tick advances the transition by dt seconds and returns the phase after
// the step. Returning Idle means the transition has fully unwound: the
// pre-warp configuration has been restored exactly and the loop may stop.
func (m *Machine) Tick(dt float64) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.pressed && m.progress == 0 {
		return Idle
	}

	if m.pressed {
		m.progress = math.Min(1, m.progress+dt/rampUpDuration)
	} else {
		m.progress = math.Max(0, m.progress-dt/rampDownDuration)
	}

	phase := m.phaseLocked()
	if phase == Idle {
		m.restoreLocked()
		return Idle
	}

	var eased float64
	switch phase {
	case RampingUp:
		eased = m.progress * m.progress * (3 - 2*m.progress)
	case Cruising:
		eased = 1
	case RampingDown:
		// Quadratic on the way down so deceleration starts immediately,
		// with no plateau near full warp.
		eased = m.progress * m.progress
	}

	m.applyLocked(eased)
	m.pulseLocked(phase, eased, dt)
	return phase
}

// applyLocked interpolates the five animated fields between the snapshot
// and the warp targets. The a*(1-t)+b*t form lands exactly on either end.
func (m *Machine) applyLocked(eased float64) {
	lerp := func(a float32, b float64) float32 {
		return float32(float64(a)*(1-eased) + b*eased)
	}
	m.cfg.Speed = lerp(m.snapshot.Speed, targetSpeed)
	m.cfg.Stretch = lerp(m.snapshot.Stretch, targetStretch)
	m.cfg.Blur = lerp(m.snapshot.Blur, targetBlur)
	m.cfg.Size = lerp(m.snapshot.Size, targetSize)
	m.cfg.BlackHoleWarp = lerp(m.snapshot.BlackHoleWarp, targetWarp)
}

func (m *Machine) restoreLocked() {
	m.cfg.Speed = m.snapshot.Speed
	m.cfg.Stretch = m.snapshot.Stretch
	m.cfg.Blur = m.snapshot.Blur
	m.cfg.Size = m.snapshot.Size
	m.cfg.BlackHoleWarp = m.snapshot.BlackHoleWarp
	m.sincePulse = 0
}

func (m *Machine) pulseLocked(phase Phase, eased, dt float64) {
	m.sincePulse += dt
	interval, intensity := cadence(phase, eased)
	if m.sincePulse >= interval {
		m.sincePulse = 0
		m.pulser.Pulse(intensity)
	}
}

// cadence returns the feedback pulse interval and intensity for a phase at
// the given eased progress. Pulses come faster and harder the deeper into
// the warp the transition is.
func cadence(phase Phase, eased float64) (interval, intensity float64) {
	switch phase {
	case RampingUp:
		return lerp64(0.30, 0.08, eased), lerp64(0.35, 1.0, eased)
	case Cruising:
		return 0.10, 1.0
	case RampingDown:
		return lerp64(0.35, 0.08, eased), lerp64(0.25, 1.0, eased)
	default:
		return math.Inf(1), 0
	}
}

func lerp64(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Engage registers a press and makes sure the tick loop is running. The
// loop exits on its own when the machine unwinds to Idle, and immediately
// when ctx is cancelled at host teardown.
func (m *Machine) Engage(ctx context.Context) {
	m.Press()
	if m.looping.CompareAndSwap(false, true) {
		go m.run(ctx)
	}
}

// Looping reports whether the tick loop is currently alive.
func (m *Machine) Looping() bool {
	return m.looping.Load()
}

func (m *Machine) run(ctx context.Context) {
	defer func() {
		m.looping.Store(false)
		// A press that raced the loop's exit restarts it; without this the
		// machine would sit pressed with nothing ticking.
		if ctx.Err() == nil && m.Pressed() && m.looping.CompareAndSwap(false, true) {
			go m.run(ctx)
		}
	}()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if m.Tick(dt) == Idle {
				return
			}
		}
	}
}
