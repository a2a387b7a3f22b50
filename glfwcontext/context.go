// Package glfwcontext adapts a GLFW window to the graphics.Surface
// contract.
package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/alextrubacs/FlowTunnel/graphics"
)

// Surface is a GLFW-backed render surface. It tracks per-key press and
// release callbacks so the host can bind the warp input.
type Surface struct {
	window     *glfw.Window
	edr        bool
	pressFns   map[glfw.Key]func()
	releaseFns map[glfw.Key]func()
}

// New creates a window-backed surface. When edr is requested the window
// asks for 16-bit color channels; the capability flag handed to the kernel
// follows what was requested here.
func New(width, height int, title string, edr bool) (*Surface, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	if edr {
		glfw.WindowHint(glfw.RedBits, 16)
		glfw.WindowHint(glfw.GreenBits, 16)
		glfw.WindowHint(glfw.BlueBits, 16)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graphics.ErrDeviceUnavailable, err)
	}

	s := &Surface{
		window:     win,
		edr:        edr,
		pressFns:   make(map[glfw.Key]func()),
		releaseFns: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(s.keyCallback)
	return s, nil
}

// OnPress registers a function to run when key goes down.
func (s *Surface) OnPress(key glfw.Key, f func()) {
	s.pressFns[key] = f
}

// OnRelease registers a function to run when key comes up.
func (s *Surface) OnRelease(key glfw.Key, f func()) {
	s.releaseFns[key] = f
}

func (s *Surface) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	switch action {
	case glfw.Press:
		if f, ok := s.pressFns[key]; ok {
			f()
		}
	case glfw.Release:
		if f, ok := s.releaseFns[key]; ok {
			f()
		}
	}
}

// MakeCurrent binds the window's GL context to the calling thread.
func (s *Surface) MakeCurrent() {
	s.window.MakeContextCurrent()
}

func (s *Surface) FramebufferSize() (int, int) {
	return s.window.GetFramebufferSize()
}

func (s *Surface) EDRCapable() bool {
	return s.edr
}

// Present swaps buffers and pumps window events.
func (s *Surface) Present() {
	s.window.SwapBuffers()
	glfw.PollEvents()
}

func (s *Surface) ShouldClose() bool {
	return s.window.ShouldClose()
}

func (s *Surface) Time() float64 {
	return glfw.GetTime()
}

// Teardown destroys the window.
func (s *Surface) Teardown() {
	s.window.Destroy()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("%w: %v", graphics.ErrDeviceUnavailable, err)
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
