package graphics

import "errors"

// Initialization failure taxonomy. All of these surface only at
// construction time, wrapped with their underlying cause; steady-state
// rendering never raises them. Match with errors.Is.
var (
	// ErrDeviceUnavailable means no capable rendering device was found.
	ErrDeviceUnavailable = errors.New("no capable rendering device")
	// ErrQueueCreationFailed means the command-submission path could not
	// be established on the device.
	ErrQueueCreationFailed = errors.New("command queue creation failed")
	// ErrBufferAllocationFailed means the fullscreen-quad vertex buffer
	// could not be allocated.
	ErrBufferAllocationFailed = errors.New("vertex buffer allocation failed")
	// ErrKernelSourceMissing means the kernel source text could not be
	// located or read.
	ErrKernelSourceMissing = errors.New("kernel source missing")
	// ErrKernelCompilationFailed means the kernel source failed to
	// translate or compile.
	ErrKernelCompilationFailed = errors.New("kernel compilation failed")
	// ErrEntryPointNotFound means a required stage entry point is absent
	// from the kernel source.
	ErrEntryPointNotFound = errors.New("kernel entry point not found")
	// ErrPipelineCreationFailed means the compiled stages could not be
	// linked into a usable pipeline.
	ErrPipelineCreationFailed = errors.New("pipeline creation failed")
)
