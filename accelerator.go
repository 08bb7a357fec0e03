package flame

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot render this frame.
// The renderer transparently falls back to the CPU pipeline.
var ErrFallbackToCPU = errors.New("flame: falling back to CPU rendering")

// FrameAccelerator is an optional GPU frame renderer.
//
// When registered via RegisterAccelerator, Renderer.RenderFrame tries the
// accelerator first. If it returns ErrFallbackToCPU or any other error,
// rendering transparently falls back to the CPU pipeline.
//
// Implementations are provided by backend packages; users opt in via blank
// import:
//
//	import _ "github.com/gogpu/flame/gpu" // enables GPU acceleration
type FrameAccelerator interface {
	// Name returns the accelerator identifier (e.g., "wgpu-compute").
	Name() string

	// Init initializes accelerator resources. Called once at registration.
	Init() error

	// Close releases accelerator resources.
	Close()

	// RenderFrame runs both pipeline stages for one frame and writes the
	// resolved RGBA pixels into target. The accelerator owns its own
	// histogram storage; it must leave that storage zeroed at return, the
	// same contract the CPU resolver upholds.
	RenderFrame(target *Pixmap, width, height int, in FrameInput) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with an external provider (e.g., a gogpu window)
// instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   FrameAccelerator
)

// RegisterAccelerator registers a frame accelerator.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. Init() is called during registration — if it fails, the
// accelerator is not registered and the error is returned.
func RegisterAccelerator(a FrameAccelerator) error {
	if a == nil {
		return errors.New("flame: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the registered accelerator, or nil if none.
func Accelerator() FrameAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing with a host application. If no
// accelerator is registered or it doesn't support sharing, this is a no-op.
//
// The provider must expose HalDevice() any and HalQueue() any returning
// wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
