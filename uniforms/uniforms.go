// Package uniforms defines the parameter block shared with the pixel kernel.
//
// The block crosses the CPU/GPU boundary as raw bytes with no type tagging,
// so its layout is an ABI contract with the kernel source, not a convention.
// The layout is pinned at compile time by the sized-array declarations below.
package uniforms

import (
	"unsafe"

	"github.com/alextrubacs/FlowTunnel/config"
)

// BlockSize is the exact byte size of Block: 11 packed float32 values.
const BlockSize = 44

// FloatCount is the number of float32 slots uploaded per frame.
const FloatCount = 11

// Block is the fixed-layout parameter record consumed by the kernel.
// Field order matches the uTunnel[] indices in the kernel source exactly.
type Block struct {
	Speed           float32
	Stretch         float32
	Blur            float32
	Density         float32
	Size            float32
	BlackHoleRadius float32
	BlackHoleWarp   float32
	Time            float32
	Resolution      [2]float32
	EDR             float32
}

// Compile-time layout pin: an array length goes negative, and compilation
// fails, as soon as the struct drifts from the 44-byte kernel ABI.
var (
	_ [BlockSize - unsafe.Sizeof(Block{})]byte
	_ [unsafe.Sizeof(Block{}) - BlockSize]byte
	_ [32 - unsafe.Offsetof(Block{}.Resolution)]byte
	_ [unsafe.Offsetof(Block{}.Resolution) - 32]byte
	_ [40 - unsafe.Offsetof(Block{}.EDR)]byte
	_ [unsafe.Offsetof(Block{}.EDR) - 40]byte
	_ [28 - unsafe.Offsetof(Block{}.Time)]byte
	_ [unsafe.Offsetof(Block{}.Time) - 28]byte
)

// Pack builds the per-frame uniform block from the live configuration, the
// elapsed animation time in seconds, the framebuffer size in pixels, and the
// display's extended-dynamic-range capability.
func Pack(cfg config.Config, elapsed float64, width, height int, edr bool) Block {
	b := Block{
		Speed:           cfg.Speed,
		Stretch:         cfg.Stretch,
		Blur:            cfg.Blur,
		Density:         cfg.Density,
		Size:            cfg.Size,
		BlackHoleRadius: cfg.BlackHoleRadius,
		BlackHoleWarp:   cfg.BlackHoleWarp,
		Time:            float32(elapsed),
		Resolution:      [2]float32{float32(width), float32(height)},
	}
	if edr {
		b.EDR = 1
	}
	return b
}

// Floats exposes the block as the flat float array the renderer uploads with
// a single glUniform1fv call.
func (b *Block) Floats() *[FloatCount]float32 {
	return (*[FloatCount]float32)(unsafe.Pointer(b))
}

// Bytes exposes the raw wire form of the block.
func (b *Block) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(b)), BlockSize)
}
