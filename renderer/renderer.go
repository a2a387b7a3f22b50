// Package renderer drives the star tunnel: it owns the GL pipeline, packs
// the uniform block and issues one fullscreen-quad draw per frame.
package renderer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	gst "github.com/richinsley/goshadertranslator"

	"github.com/alextrubacs/FlowTunnel/config"
	"github.com/alextrubacs/FlowTunnel/graphics"
	"github.com/alextrubacs/FlowTunnel/kernel"
	"github.com/alextrubacs/FlowTunnel/translator"
	"github.com/alextrubacs/FlowTunnel/uniforms"
)

var glInitOnce sync.Once

// Options tunes renderer construction.
type Options struct {
	// KernelPath overrides the embedded fragment kernel source.
	KernelPath string
}

// Two triangles covering the full viewport in clip space.
var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Renderer is the frame driver. Construction acquires the device, allocates
// the quad buffer, compiles the kernel and links the pipeline exactly once;
// all of it is immutable afterwards. Per-frame work is RenderFrame.
type Renderer struct {
	surface   graphics.Surface
	cfg       *config.Config
	program   uint32
	quadVAO   uint32
	quadVBO   uint32
	tunnelLoc int32
	edr       bool
	start     time.Time
	fps       fpsEstimator
}

// New builds a renderer on the given surface. cfg stays owned by the host
// and is re-read every frame; the host may mutate it at any time.
//
// Every failure is returned as one of the graphics error sentinels, wrapped
// with its cause. There is no retry policy; the caller decides whether to
// construct again.
func New(surface graphics.Surface, cfg *config.Config, opts Options) (*Renderer, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: no surface", graphics.ErrDeviceUnavailable)
	}
	r := &Renderer{
		surface: surface,
		cfg:     cfg,
		edr:     surface.EDRCapable(),
	}

	surface.MakeCurrent()
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("%w: %v", graphics.ErrQueueCreationFailed, initErr)
	}

	if err := r.createQuad(); err != nil {
		r.Shutdown()
		return nil, err
	}

	body, err := kernel.Load(opts.KernelPath)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("%w: %v", graphics.ErrKernelSourceMissing, err)
	}
	if !kernel.HasEntryPoint(body) {
		r.Shutdown()
		return nil, fmt.Errorf("%w: %s", graphics.ErrEntryPointNotFound, kernel.FragmentEntryPoint)
	}
	if err := r.createPipeline(body); err != nil {
		r.Shutdown()
		return nil, err
	}

	r.start = time.Now()
	return r, nil
}

func (r *Renderer) createQuad() error {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		return fmt.Errorf("%w: gl error 0x%x", graphics.ErrBufferAllocationFailed, errCode)
	}
	return nil
}

func (r *Renderer) createPipeline(body string) error {
	tr, err := translator.Get()
	if err != nil {
		return fmt.Errorf("%w: translator unavailable: %v", graphics.ErrKernelCompilationFailed, err)
	}
	fs, err := tr.TranslateShader(kernel.FragmentSource(body), "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return fmt.Errorf("%w: %v", graphics.ErrKernelCompilationFailed, err)
	}

	vertexShader, err := compileShader(kernel.VertexSource(), gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("%w: vertex stage: %v", graphics.ErrKernelCompilationFailed, err)
	}
	fragmentShader, err := compileShader(fs.Code, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return fmt.Errorf("%w: fragment stage: %v", graphics.ErrKernelCompilationFailed, err)
	}

	program, err := linkProgram(vertexShader, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	if err != nil {
		return fmt.Errorf("%w: %v", graphics.ErrPipelineCreationFailed, err)
	}
	r.program = program

	r.tunnelLoc = uniformLocation(fs.Variables, program, "uTunnel")
	if r.tunnelLoc < 0 {
		return fmt.Errorf("%w: uTunnel parameter block absent from linked program", graphics.ErrPipelineCreationFailed)
	}
	return nil
}

// uniformLocation resolves a uniform through the translator's name mapping,
// falling back to the [0] form the compiler may use for arrays.
func uniformLocation(vars map[string]gst.ShaderVariable, program uint32, name string) int32 {
	for _, candidate := range []string{name, name + "[0]"} {
		if v, ok := vars[candidate]; ok {
			if loc := gl.GetUniformLocation(program, gl.Str(v.MappedName+"\x00")); loc >= 0 {
				return loc
			}
		}
	}
	for _, candidate := range []string{name, name + "[0]"} {
		if loc := gl.GetUniformLocation(program, gl.Str(candidate+"\x00")); loc >= 0 {
			return loc
		}
	}
	return -1
}

// RenderFrame advances the clock, packs the uniform block from the current
// configuration and issues the single quad draw. It never blocks and never
// fails: when the surface has no drawable the frame is skipped silently and
// rendering resumes on the next tick.
func (r *Renderer) RenderFrame() {
	width, height := r.surface.FramebufferSize()
	if width <= 0 || height <= 0 {
		return
	}

	elapsed := time.Since(r.start).Seconds()
	r.fps.frame(elapsed)

	block := uniforms.Pack(*r.cfg, elapsed, width, height, r.edr)

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.Uniform1fv(r.tunnelLoc, uniforms.FloatCount, &block.Floats()[0])
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// FPS returns the rolling estimate, refreshed every half second of
// wall-clock time. Safe to call from any goroutine.
func (r *Renderer) FPS() float64 {
	return r.fps.value()
}

// Run renders and presents until the surface asks to close or ctx is
// cancelled. It must be called on the thread that owns the GL context.
func (r *Renderer) Run(ctx context.Context) {
	for !r.surface.ShouldClose() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r.RenderFrame()
		r.surface.Present()
	}
}

// Shutdown releases the pipeline and quad buffer. The surface itself stays
// owned by the host.
func (r *Renderer) Shutdown() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
		r.quadVBO = 0
	}
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		r.quadVAO = 0
	}
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
