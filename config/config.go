// Package config holds the user-facing tunnel parameters.
//
// A Config is a plain value type owned by the host. It may be mutated at any
// time, including while a frame is in flight; the renderer copies it into the
// uniform block once per frame and tolerates torn-but-plausible float values
// (last write wins). Out-of-range values are used as-is, clamping happens in
// the kernel where it matters.
package config

// Config is the full parameter set for the star tunnel effect.
type Config struct {
	// Speed multiplies the animation clock. Range 0-3.
	Speed float32
	// Stretch controls radial star elongation. Range 0-3.
	Stretch float32
	// Blur widens the star glow. Range 0-1.
	Blur float32
	// Density drives the layer count (10-40) and the star-presence
	// threshold. Range 0.1-2.
	Density float32
	// Size scales the base star radius. Range 0.1-3.
	Size float32
	// BlackHoleRadius is the event-horizon radius in normalized space.
	// Zero disables the black hole entirely. Range 0-0.5.
	BlackHoleRadius float32
	// BlackHoleWarp is the lensing deflection strength. Range 0-3.
	BlackHoleWarp float32
}

// Default returns the documented default parameter set.
func Default() Config {
	return Config{
		Speed:           1.0,
		Stretch:         0.0,
		Blur:            0.15,
		Density:         1.8,
		Size:            0.15,
		BlackHoleRadius: 0.15,
		BlackHoleWarp:   1.0,
	}
}
