package kernel

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/alextrubacs/FlowTunnel/config"
)

// Render evaluates the reference kernel for every pixel of a width x height
// frame and returns it as an image. It needs no GPU and is deterministic for
// a given (cfg, elapsed, size, edr) tuple.
//
// Extended-range values are clamped to display white here; the headroom
// only survives on a real EDR surface.
func Render(cfg config.Config, elapsed float64, width, height int, edr bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				// Image rows grow downward; flip to the GL convention
				// where fragCoord y grows upward.
				fy := float64(height-1-y) + 0.5
				for x := 0; x < width; x++ {
					fx := float64(x) + 0.5
					uv := mgl64.Vec2{
						(2*fx - float64(width)) / float64(height),
						(2*fy - float64(height)) / float64(height),
					}
					col := Shade(cfg, elapsed, uv, edr)
					img.SetRGBA(x, y, color.RGBA{
						R: quantize(col[0]),
						G: quantize(col[1]),
						B: quantize(col[2]),
						A: 255,
					})
				}
			}
		}()
	}
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
	return img
}

func quantize(v float64) uint8 {
	return uint8(math.Round(math.Min(1, math.Max(0, v)) * 255))
}
