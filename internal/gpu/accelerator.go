// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/flame"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Accelerator renders frames on the GPU with the two-stage compute
// pipeline. It implements flame.FrameAccelerator and
// flame.DeviceProviderAware.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	dispatcher *Dispatcher

	gpuReady       bool
	initFailed     bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

// Interface compliance checks.
var _ flame.FrameAccelerator = (*Accelerator)(nil)
var _ flame.DeviceProviderAware = (*Accelerator)(nil)

// Name returns the accelerator identifier.
func (a *Accelerator) Name() string { return "wgpu-compute" }

// Init registers the accelerator. GPU device initialization is deferred
// until the first frame or until SetDeviceProvider is called, so that a
// standalone Vulkan device is never created when the host is about to
// share one.
func (a *Accelerator) Init() error {
	return nil
}

// Close releases all GPU resources held by the accelerator.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dispatcher != nil {
		a.dispatcher.Close()
		a.dispatcher = nil
	}

	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Don't destroy shared resources -- we don't own them.
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.initFailed = false
	a.externalDevice = false
}

// SetLogger sets the logger for the GPU backend. Called by
// flame.SetLogger to propagate logging configuration.
func (a *Accelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// SetDeviceProvider switches the accelerator to use a shared GPU device
// from an external provider (e.g., a gogpu window). The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu-compute: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu-compute: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu-compute: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dispatcher != nil {
		a.dispatcher.Close()
		a.dispatcher = nil
	}
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true
	a.initFailed = false

	dispatcher := NewDispatcher(device, queue)
	if err := dispatcher.Init(); err != nil {
		slogger().Warn("wgpu-compute: pipeline init failed, compute unavailable", "error", err)
		a.gpuReady = false
		a.initFailed = true
		return nil
	}
	a.dispatcher = dispatcher

	a.gpuReady = true
	slogger().Debug("wgpu-compute: switched to shared GPU device")
	return nil
}

// RenderFrame runs both pipeline stages on the GPU and writes the resolved
// pixels into target. Returns flame.ErrFallbackToCPU when no usable GPU
// device is available.
func (a *Accelerator) RenderFrame(target *flame.Pixmap, width, height int, in flame.FrameInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initFailed {
		return flame.ErrFallbackToCPU
	}
	if !a.gpuReady {
		if err := a.initGPULocked(); err != nil {
			slogger().Debug("wgpu-compute: GPU unavailable", "error", err)
			a.initFailed = true
			return flame.ErrFallbackToCPU
		}
	}
	if a.dispatcher == nil {
		return flame.ErrFallbackToCPU
	}

	params := FrameParams{
		Width:        uint32(width),
		Height:       uint32(height),
		Time:         float32(in.Time),
		ChaosTime:    float32(in.ChaosTime()),
		KnobA:        float32(in.Knobs.A),
		KnobB:        float32(in.Knobs.B),
		KnobC:        float32(in.Knobs.C),
		KnobD:        float32(in.Knobs.D),
		DOFAmount:    float32(in.Knobs.DOFAmount),
		DOFFocalDist: float32(in.Knobs.DOFFocalDist),
	}
	return a.dispatcher.RenderInto(target.Data(), width, height, params)
}

// initGPULocked creates a standalone Vulkan device for compute-only use.
// This is the fallback path when no external device is provided via
// SetDeviceProvider.
func (a *Accelerator) initGPULocked() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	dispatcher := NewDispatcher(a.device, a.queue)
	if err := dispatcher.Init(); err != nil {
		return fmt.Errorf("pipeline init: %w", err)
	}
	a.dispatcher = dispatcher

	a.gpuReady = true
	slogger().Info("wgpu-compute: GPU initialized (standalone)", "adapter", selected.Info.Name)
	return nil
}
