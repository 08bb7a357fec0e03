//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for GPU frame
// rendering.
//
// Import this package to run both pipeline stages as compute shaders on
// the GPU. If GPU initialization fails (no Vulkan available), rendering
// falls back to the CPU pipeline transparently.
//
// Usage:
//
//	import _ "github.com/gogpu/flame/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/flame"
	gpuimpl "github.com/gogpu/flame/internal/gpu"
)

func init() {
	if err := flame.RegisterAccelerator(&gpuimpl.Accelerator{}); err != nil {
		flame.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to use a shared GPU device
// from an external provider (e.g., a gogpu window). This avoids creating a
// separate GPU instance and enables efficient device sharing.
//
// The provider must additionally expose HalDevice() any and HalQueue() any
// returning wgpu/hal types, as gogpu device providers do.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return flame.SetAcceleratorDeviceProvider(provider)
}
