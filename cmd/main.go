package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/alextrubacs/FlowTunnel/config"
	"github.com/alextrubacs/FlowTunnel/feedback"
	"github.com/alextrubacs/FlowTunnel/glfwcontext"
	"github.com/alextrubacs/FlowTunnel/renderer"
	"github.com/alextrubacs/FlowTunnel/warp"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var width = flag.Int("width", 1280, "Window width in pixels")
	var height = flag.Int("height", 720, "Window height in pixels")
	var edr = flag.Bool("edr", false, "Request an extended-dynamic-range surface")
	var kernelPath = flag.String("kernel", "", "Override the embedded fragment kernel source with a file")
	var silent = flag.Bool("silent", false, "Disable warp feedback pulses")
	var showFPS = flag.Bool("fps", true, "Log the FPS estimate")
	var help = flag.Bool("help", false, "Show help message")

	defaults := config.Default()
	var speed = flag.Float64("speed", float64(defaults.Speed), "Animation speed multiplier (0-3)")
	var stretch = flag.Float64("stretch", float64(defaults.Stretch), "Radial star elongation (0-3)")
	var blur = flag.Float64("blur", float64(defaults.Blur), "Glow softness (0-1)")
	var density = flag.Float64("density", float64(defaults.Density), "Star density (0.1-2)")
	var size = flag.Float64("size", float64(defaults.Size), "Base star radius scale (0.1-3)")
	var holeRadius = flag.Float64("radius", float64(defaults.BlackHoleRadius), "Event horizon radius, 0 disables the black hole (0-0.5)")
	var holeWarp = flag.Float64("warp", float64(defaults.BlackHoleWarp), "Lensing deflection strength (0-3)")

	flag.Parse()

	if *help {
		fmt.Println("FlowTunnel - star tunnel with gravitational lensing")
		fmt.Println("Hold space to warp, Escape to quit.")
		flag.PrintDefaults()
		return
	}

	cfg := config.Config{
		Speed:           float32(*speed),
		Stretch:         float32(*stretch),
		Blur:            float32(*blur),
		Density:         float32(*density),
		Size:            float32(*size),
		BlackHoleRadius: float32(*holeRadius),
		BlackHoleWarp:   float32(*holeWarp),
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	surface, err := glfwcontext.New(*width, *height, "flowtunnel", *edr)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer surface.Teardown()

	r, err := renderer.New(surface, &cfg, renderer.Options{KernelPath: *kernelPath})
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pulser feedback.Pulser = feedback.Silent{}
	if !*silent {
		sp := feedback.NewSpeaker()
		defer sp.Close()
		pulser = sp
	}

	machine := warp.NewMachine(&cfg, pulser)
	surface.OnPress(glfw.KeySpace, func() { machine.Engage(ctx) })
	surface.OnRelease(glfw.KeySpace, func() { machine.Release() })

	if *showFPS {
		go renderer.PollFPS(ctx, r, 100*time.Millisecond, func(fps float64) {
			log.Printf("fps: %.1f", fps)
		})
	}

	log.Println("Starting interactive render loop...")
	r.Run(ctx)
}
