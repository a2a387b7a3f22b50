package warp

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/alextrubacs/FlowTunnel/config"
)

type countingPulser struct {
	mu          sync.Mutex
	count       int
	intensities []float64
}

func (p *countingPulser) Pulse(intensity float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	p.intensities = append(p.intensities, intensity)
}

func (p *countingPulser) snapshot() (int, []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count, append([]float64(nil), p.intensities...)
}

func hold(m *Machine, seconds, dt float64) {
	for elapsed := 0.0; elapsed < seconds; elapsed += dt {
		m.Tick(dt)
	}
}

func TestPressSnapshotsConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Speed = 0.5
	m := NewMachine(&cfg, nil)

	m.Press()
	if m.Phase() != RampingUp {
		t.Fatalf("phase after press = %v, want %v", m.Phase(), RampingUp)
	}
	if m.snapshot.Speed != 0.5 {
		t.Errorf("snapshot.Speed = %v, want the live value 0.5", m.snapshot.Speed)
	}
}

func TestHoldReachesWarpTargetsExactly(t *testing.T) {
	cfg := config.Default()
	m := NewMachine(&cfg, nil)

	m.Press()
	hold(m, 3.2, 1.0/60)

	if got := m.Progress(); got != 1 {
		t.Fatalf("progress after 3.2s hold = %v, want 1", got)
	}
	if m.Phase() != Cruising {
		t.Fatalf("phase = %v, want %v", m.Phase(), Cruising)
	}

	targets := []struct {
		name string
		got  float32
		want float32
	}{
		{"Speed", cfg.Speed, 3.0},
		{"Stretch", cfg.Stretch, 2.5},
		{"Blur", cfg.Blur, 0.8},
		{"Size", cfg.Size, 0.25},
		{"BlackHoleWarp", cfg.BlackHoleWarp, 2.0},
	}
	for _, c := range targets {
		if c.got != c.want {
			t.Errorf("%s at full warp = %v, want exactly %v", c.name, c.got, c.want)
		}
	}
}

func TestWarpNeverTouchesDensityOrRadius(t *testing.T) {
	cfg := config.Default()
	m := NewMachine(&cfg, nil)

	m.Press()
	hold(m, 1.7, 1.0/60)
	if cfg.Density != 1.8 || cfg.BlackHoleRadius != 0.15 {
		t.Errorf("density/radius drifted during warp: %v, %v", cfg.Density, cfg.BlackHoleRadius)
	}
	m.Release()
	hold(m, 1.0, 1.0/60)
	if cfg.Density != 1.8 || cfg.BlackHoleRadius != 0.15 {
		t.Errorf("density/radius drifted during ramp-down: %v, %v", cfg.Density, cfg.BlackHoleRadius)
	}
}

func TestReleaseRestoresSnapshotExactly(t *testing.T) {
	cfg := config.Default()
	cfg.Speed = 0.7
	cfg.Blur = 0.4
	original := cfg
	m := NewMachine(&cfg, nil)

	m.Press()
	hold(m, 3.5, 1.0/60)
	m.Release()
	if m.Phase() != RampingDown {
		t.Fatalf("phase after release = %v, want %v", m.Phase(), RampingDown)
	}
	hold(m, 2.6, 1.0/60)

	if m.Phase() != Idle {
		t.Fatalf("phase after full ramp-down = %v, want %v", m.Phase(), Idle)
	}
	if cfg != original {
		t.Errorf("configuration after unwind = %+v, want the pre-warp snapshot %+v", cfg, original)
	}
}

func TestRampUpEasing(t *testing.T) {
	cfg := config.Default()
	cfg.Speed = 1.0
	m := NewMachine(&cfg, nil)

	m.Press()
	m.Tick(1.5)

	// Halfway up the ramp, smoothstep(0.5) = 0.5.
	if got := m.Progress(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("progress = %v, want 0.5", got)
	}
	want := float32(1.0*(1-0.5) + targetSpeed*0.5)
	if cfg.Speed != want {
		t.Errorf("Speed at eased midpoint = %v, want %v", cfg.Speed, want)
	}
}

func TestRampDownEasingIsQuadratic(t *testing.T) {
	cfg := config.Default()
	cfg.Speed = 1.0
	m := NewMachine(&cfg, nil)

	m.Press()
	hold(m, 3.2, 1.0/60)
	m.Release()
	m.Tick(1.25)

	// Half the ramp-down is gone; eased progress is t^2 = 0.25, so
	// deceleration starts immediately with no plateau.
	if got := m.Progress(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("progress = %v, want 0.5", got)
	}
	eased := 0.5 * 0.5
	want := float32(1.0*(1-eased) + targetSpeed*eased)
	if cfg.Speed != want {
		t.Errorf("Speed on quadratic ramp-down = %v, want %v", cfg.Speed, want)
	}
}

func TestRepressKeepsOriginalSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Speed = 0.6
	original := cfg
	m := NewMachine(&cfg, nil)

	m.Press()
	hold(m, 1.5, 1.0/60)
	m.Release()
	hold(m, 0.5, 1.0/60)
	// Catch the ramp on the way down; the interpolation base must remain
	// the original pre-warp values, not the half-warped ones.
	m.Press()
	hold(m, 3.5, 1.0/60)
	m.Release()
	hold(m, 2.6, 1.0/60)

	if cfg != original {
		t.Errorf("configuration after re-press cycle = %+v, want %+v", cfg, original)
	}
}

func TestIdleTickIsInert(t *testing.T) {
	cfg := config.Default()
	original := cfg
	m := NewMachine(&cfg, nil)

	if m.Tick(1.0) != Idle {
		t.Fatal("tick on an idle machine must report Idle")
	}
	if cfg != original {
		t.Errorf("idle tick mutated the configuration: %+v", cfg)
	}
}

func TestFeedbackCadence(t *testing.T) {
	if i, a := cadence(RampingUp, 0); i != 0.30 || a != 0.35 {
		t.Errorf("cadence(RampingUp, 0) = %v, %v, want 0.30, 0.35", i, a)
	}
	if i, a := cadence(RampingUp, 1); i != 0.08 || a != 1.0 {
		t.Errorf("cadence(RampingUp, 1) = %v, %v, want 0.08, 1.0", i, a)
	}
	if i, a := cadence(Cruising, 1); i != 0.10 || a != 1.0 {
		t.Errorf("cadence(Cruising, 1) = %v, %v, want 0.10, 1.0", i, a)
	}
	if i, a := cadence(RampingDown, 0); i != 0.35 || a != 0.25 {
		t.Errorf("cadence(RampingDown, 0) = %v, %v, want 0.35, 0.25", i, a)
	}
	if i, _ := cadence(Idle, 0); !math.IsInf(i, 1) {
		t.Errorf("cadence(Idle) interval = %v, want +Inf", i)
	}
}

func TestPulsesIntensifyUpTheRamp(t *testing.T) {
	cfg := config.Default()
	p := &countingPulser{}
	m := NewMachine(&cfg, p)

	m.Press()
	hold(m, 3.0, 1.0/60)
	count, intensities := p.snapshot()
	if count < 5 {
		t.Fatalf("pulses over a full ramp-up = %d, want several", count)
	}
	if first, last := intensities[0], intensities[len(intensities)-1]; last <= first {
		t.Errorf("pulse intensity did not rise over the ramp: first %v, last %v", first, last)
	}
}

func TestEngageLoopUnwindsToIdle(t *testing.T) {
	cfg := config.Default()
	m := NewMachine(&cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Engage(ctx)
	if !m.Looping() {
		t.Fatal("Engage did not start the tick loop")
	}
	time.Sleep(100 * time.Millisecond)
	m.Release()

	deadline := time.After(3 * time.Second)
	for m.Looping() {
		select {
		case <-deadline:
			t.Fatal("tick loop did not stop after unwinding to Idle")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if m.Phase() != Idle {
		t.Errorf("phase after loop exit = %v, want %v", m.Phase(), Idle)
	}
}

func TestEngageLoopStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	m := NewMachine(&cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())

	m.Engage(ctx)
	cancel()

	deadline := time.After(time.Second)
	for m.Looping() {
		select {
		case <-deadline:
			t.Fatal("tick loop ignored context cancellation")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
