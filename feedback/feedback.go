// Package feedback turns warp pulses into something the user can feel.
// Desktop hosts have no haptic engine, so the default sink is a short
// audible tick whose loudness tracks the requested intensity.
package feedback

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Pulser receives one discrete feedback pulse. Intensity is in [0,1].
// Implementations must not block; they are called from the warp tick loop.
type Pulser interface {
	Pulse(intensity float64)
}

// Silent discards all pulses.
type Silent struct{}

func (Silent) Pulse(float64) {}

const (
	pulseRate     = beep.SampleRate(48000)
	pulseFreq     = 180.0
	pulseDuration = 30 * time.Millisecond
	pulseDecay    = 60.0
)

// Speaker plays pulses through the system audio output. If the speaker
// cannot be opened it degrades to silence rather than failing; feedback is
// never worth blocking the warp loop over.
type Speaker struct {
	mixer *beep.Mixer
	ok    bool
}

// NewSpeaker opens the audio output. Call Close when the host view is torn
// down.
func NewSpeaker() *Speaker {
	s := &Speaker{mixer: &beep.Mixer{}}
	if err := speaker.Init(pulseRate, pulseRate.N(50*time.Millisecond)); err != nil {
		return s
	}
	speaker.Play(s.mixer)
	s.ok = true
	return s
}

// Pulse queues one enveloped sine tick at the given intensity.
func (s *Speaker) Pulse(intensity float64) {
	if !s.ok {
		return
	}
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	tick := &pulseTone{amp: intensity * 0.6}
	speaker.Lock()
	s.mixer.Add(beep.Take(pulseRate.N(pulseDuration), tick))
	speaker.Unlock()
}

// Close silences the output.
func (s *Speaker) Close() {
	if !s.ok {
		return
	}
	speaker.Clear()
}

// pulseTone streams a decaying sine burst.
type pulseTone struct {
	amp float64
	pos int
}

func (p *pulseTone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		t := float64(p.pos) / float64(pulseRate)
		v := math.Sin(2*math.Pi*pulseFreq*t) * p.amp * math.Exp(-t*pulseDecay)
		samples[i][0] = v
		samples[i][1] = v
		p.pos++
	}
	return len(samples), true
}

func (p *pulseTone) Err() error { return nil }
