// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// dispatcher.go manages the two-stage compute pipeline: shader compilation,
// buffer allocation, and the per-frame dispatch sequence. The sampler pass
// accumulates the histogram; the resolve pass tonemaps it into packed RGBA
// pixels and clears it. Pass ordering within a single command buffer gives
// the required barrier between the stages.

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sampler.wgsl
var samplerShaderSource string

//go:embed shaders/resolve.wgsl
var resolveShaderSource string

const (
	// wgSize is the square workgroup edge used by both compute shaders.
	// This matches the @workgroup_size(8, 8) attribute in the WGSL.
	wgSize = 8

	// fenceTimeout is the maximum time to wait for GPU work to complete.
	fenceTimeout = 5 * time.Second
)

// Stage identifies one of the two pipeline stages.
type Stage int

const (
	// StageSampler runs one chaos-game trajectory per screen cell and
	// splats hit counts into the histogram buffer with atomic adds.
	StageSampler Stage = iota

	// StageResolve tonemaps each histogram cell into a packed RGBA pixel
	// and zeroes the cell for the next frame.
	StageResolve

	// StageCount is the number of pipeline stages.
	StageCount
)

func (s Stage) String() string {
	switch s {
	case StageSampler:
		return "sampler"
	case StageResolve:
		return "resolve"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// FrameParams is the per-frame uniform shared by both shader stages.
// The layout matches the WGSL Params struct: 2 u32 fields followed by
// 10 f32 fields, 48 bytes total.
type FrameParams struct {
	Width        uint32
	Height       uint32
	Time         float32
	ChaosTime    float32
	KnobA        float32
	KnobB        float32
	KnobC        float32
	KnobD        float32
	DOFAmount    float32
	DOFFocalDist float32
}

func (p FrameParams) sizeInBytes() uint64 {
	return 12 * 4 // includes two trailing pad words
}

// toBytes serializes FrameParams in little-endian order.
func (p FrameParams) toBytes() []byte {
	buf := make([]byte, p.sizeInBytes())
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], p.Width)
	le.PutUint32(buf[4:8], p.Height)
	le.PutUint32(buf[8:12], math.Float32bits(p.Time))
	le.PutUint32(buf[12:16], math.Float32bits(p.ChaosTime))
	le.PutUint32(buf[16:20], math.Float32bits(p.KnobA))
	le.PutUint32(buf[20:24], math.Float32bits(p.KnobB))
	le.PutUint32(buf[24:28], math.Float32bits(p.KnobC))
	le.PutUint32(buf[28:32], math.Float32bits(p.KnobD))
	le.PutUint32(buf[32:36], math.Float32bits(p.DOFAmount))
	le.PutUint32(buf[36:40], math.Float32bits(p.DOFFocalDist))
	return buf
}

// stageBindGroupLayoutEntries returns the bind group layout for a stage.
//
// Sampler bindings: 0 = params uniform, 1 = histogram storage (atomics).
// Resolve bindings: 0 = params uniform, 1 = histogram storage, 2 = output.
func stageBindGroupLayoutEntries(stage Stage) []gputypes.BindGroupLayoutEntry {
	uniform := gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
	storage := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
		}
	}

	switch stage {
	case StageSampler:
		return []gputypes.BindGroupLayoutEntry{uniform, storage(1)}
	case StageResolve:
		return []gputypes.BindGroupLayoutEntry{uniform, storage(1), storage(2)}
	default:
		return nil
	}
}

// Dispatcher owns the compute pipelines and frame buffers for GPU
// rendering. It is created with NewDispatcher, initialized once with Init,
// and driven per frame with RenderInto.
type Dispatcher struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	shaderModules   [StageCount]hal.ShaderModule
	bgLayouts       [StageCount]hal.BindGroupLayout
	pipelineLayouts [StageCount]hal.PipelineLayout
	pipelines       [StageCount]hal.ComputePipeline

	// Frame buffers, reallocated when the target size changes.
	paramsBuf  hal.Buffer
	histBuf    hal.Buffer
	outputBuf  hal.Buffer
	stagingBuf hal.Buffer
	bufWidth   int
	bufHeight  int

	initialized bool
}

// NewDispatcher creates a dispatcher bound to a device and queue.
// Call Init before the first RenderInto.
func NewDispatcher(device hal.Device, queue hal.Queue) *Dispatcher {
	return &Dispatcher{device: device, queue: queue}
}

// Init compiles both shader stages and creates their pipelines.
// Safe to call more than once; subsequent calls are no-ops.
func (d *Dispatcher) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	sources := [StageCount]string{
		StageSampler: samplerShaderSource,
		StageResolve: resolveShaderSource,
	}

	for i := Stage(0); i < StageCount; i++ {
		src := sources[i]
		if src == "" {
			return fmt.Errorf("flame compute: missing shader source for stage %s", i)
		}

		stageName := fmt.Sprintf("flame_%s", i)

		module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  stageName,
			Source: hal.ShaderSource{WGSL: src},
		})
		if err != nil {
			d.destroyPartialInit(i)
			return fmt.Errorf("flame compute: create shader module for %s: %w", i, err)
		}
		d.shaderModules[i] = module

		entries := stageBindGroupLayoutEntries(i)
		bgLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   stageName + "_bgl",
			Entries: entries,
		})
		if err != nil {
			d.destroyPartialInit(i + 1)
			return fmt.Errorf("flame compute: create bind group layout for %s: %w", i, err)
		}
		d.bgLayouts[i] = bgLayout

		pipelineLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            stageName + "_pl",
			BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
		})
		if err != nil {
			d.destroyPartialInit(i + 1)
			return fmt.Errorf("flame compute: create pipeline layout for %s: %w", i, err)
		}
		d.pipelineLayouts[i] = pipelineLayout

		pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:  stageName,
			Layout: pipelineLayout,
			Compute: hal.ComputeState{
				Module:     module,
				EntryPoint: "main",
			},
		})
		if err != nil {
			d.destroyPartialInit(i + 1)
			return fmt.Errorf("flame compute: create compute pipeline for %s: %w", i, err)
		}
		d.pipelines[i] = pipeline

		slogger().Debug("flame compute: pipeline created",
			"stage", i.String(),
			"bindings", len(entries),
			"shader_bytes", len(src))
	}

	d.initialized = true
	slogger().Info("flame compute: pipelines initialized", "stages", int(StageCount))
	return nil
}

// destroyPartialInit cleans up resources for stages [0, upTo) during a
// failed Init.
func (d *Dispatcher) destroyPartialInit(upTo Stage) {
	for j := Stage(0); j < upTo; j++ {
		if d.pipelines[j] != nil {
			d.device.DestroyComputePipeline(d.pipelines[j])
			d.pipelines[j] = nil
		}
		if d.pipelineLayouts[j] != nil {
			d.device.DestroyPipelineLayout(d.pipelineLayouts[j])
			d.pipelineLayouts[j] = nil
		}
		if d.bgLayouts[j] != nil {
			d.device.DestroyBindGroupLayout(d.bgLayouts[j])
			d.bgLayouts[j] = nil
		}
		if d.shaderModules[j] != nil {
			d.device.DestroyShaderModule(d.shaderModules[j])
			d.shaderModules[j] = nil
		}
	}
}

// Close releases all GPU resources held by the dispatcher. After Close the
// dispatcher must be re-initialized with Init before use.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.destroyBuffersLocked()
	d.destroyPartialInit(StageCount)
	d.initialized = false
}

func (d *Dispatcher) destroyBuffersLocked() {
	for _, b := range []*hal.Buffer{&d.paramsBuf, &d.histBuf, &d.outputBuf, &d.stagingBuf} {
		if *b != nil {
			d.device.DestroyBuffer(*b)
			*b = nil
		}
	}
	d.bufWidth = 0
	d.bufHeight = 0
}

// ensureBuffersLocked (re)allocates the frame buffers for a target size.
// The histogram is zero-initialized on allocation; after that the resolve
// pass leaves it zeroed at the end of every frame.
func (d *Dispatcher) ensureBuffersLocked(width, height int) error {
	if d.bufWidth == width && d.bufHeight == height && d.histBuf != nil {
		return nil
	}
	d.destroyBuffersLocked()

	cells := uint64(width) * uint64(height)
	histSize := 2 * cells * 4
	pixelSize := cells * 4

	type bufSpec struct {
		target *hal.Buffer
		label  string
		size   uint64
		usage  gputypes.BufferUsage
	}
	specs := []bufSpec{
		{&d.paramsBuf, "flame_params", FrameParams{}.sizeInBytes(),
			gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
		{&d.histBuf, "flame_hist", histSize,
			gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		{&d.outputBuf, "flame_output", pixelSize,
			gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc},
		{&d.stagingBuf, "flame_staging", pixelSize,
			gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
	}
	for _, s := range specs {
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: s.label,
			Size:  s.size,
			Usage: s.usage,
		})
		if err != nil {
			d.destroyBuffersLocked()
			return fmt.Errorf("flame compute: create buffer %s: %w", s.label, err)
		}
		*s.target = buf
	}

	d.queue.WriteBuffer(d.histBuf, 0, make([]byte, histSize))

	d.bufWidth = width
	d.bufHeight = height
	slogger().Debug("flame compute: buffers allocated",
		"width", width, "height", height, "hist_bytes", histSize)
	return nil
}

// RenderInto runs the sampler and resolve passes for one frame and writes
// the packed RGBA result into pixels, which must hold width*height*4 bytes.
func (d *Dispatcher) RenderInto(pixels []byte, width, height int, params FrameParams) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return fmt.Errorf("flame compute: dispatcher not initialized, call Init() first")
	}
	if len(pixels) < width*height*4 {
		return fmt.Errorf("flame compute: pixel buffer too small: %d < %d", len(pixels), width*height*4)
	}
	if err := d.ensureBuffersLocked(width, height); err != nil {
		return err
	}

	d.queue.WriteBuffer(d.paramsBuf, 0, params.toBytes())

	bindGroups, err := d.createBindGroupsLocked()
	if err != nil {
		return err
	}
	defer func() {
		for _, bg := range bindGroups {
			d.device.DestroyBindGroup(bg)
		}
	}()

	cmdBuf, err := d.encodePassesLocked(bindGroups, width, height)
	if err != nil {
		return err
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("flame compute: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("flame compute: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("flame compute: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("flame compute: GPU timeout after %v", fenceTimeout)
	}

	if err := d.queue.ReadBuffer(d.stagingBuf, 0, pixels[:width*height*4]); err != nil {
		return fmt.Errorf("flame compute: readback: %w", err)
	}
	return nil
}

func (d *Dispatcher) createBindGroupsLocked() ([StageCount]hal.BindGroup, error) {
	var groups [StageCount]hal.BindGroup

	binding := func(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
		return gputypes.BindGroupEntry{
			Binding: binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   0,
			},
		}
	}
	entries := [StageCount][]gputypes.BindGroupEntry{
		StageSampler: {binding(0, d.paramsBuf), binding(1, d.histBuf)},
		StageResolve: {binding(0, d.paramsBuf), binding(1, d.histBuf), binding(2, d.outputBuf)},
	}

	for i := Stage(0); i < StageCount; i++ {
		bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   fmt.Sprintf("flame_%s_bg", i),
			Layout:  d.bgLayouts[i],
			Entries: entries[i],
		})
		if err != nil {
			for j := Stage(0); j < i; j++ {
				d.device.DestroyBindGroup(groups[j])
			}
			return groups, fmt.Errorf("flame compute: create bind group for %s: %w", i, err)
		}
		groups[i] = bg
	}
	return groups, nil
}

// encodePassesLocked records both compute passes and the staging copy into
// one command buffer. The sampler pass must complete before the resolve
// pass reads the histogram; recording them in order in the same command
// buffer provides that barrier.
func (d *Dispatcher) encodePassesLocked(bindGroups [StageCount]hal.BindGroup, width, height int) (hal.CommandBuffer, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "flame_compute",
	})
	if err != nil {
		return nil, fmt.Errorf("flame compute: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("flame_compute"); err != nil {
		return nil, fmt.Errorf("flame compute: begin encoding: %w", err)
	}

	wgX := WorkgroupCount(width)
	wgY := WorkgroupCount(height)

	for i := Stage(0); i < StageCount; i++ {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{
			Label: fmt.Sprintf("flame_%s", i),
		})
		pass.SetPipeline(d.pipelines[i])
		pass.SetBindGroup(0, bindGroups[i], nil)
		pass.Dispatch(wgX, wgY, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(d.outputBuf, d.stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: uint64(width) * uint64(height) * 4},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("flame compute: end encoding: %w", err)
	}
	return cmdBuf, nil
}

// WorkgroupCount returns the number of workgroups along one axis for a
// given pixel extent, using ceiling division by the workgroup edge.
func WorkgroupCount(extent int) uint32 {
	if extent <= 0 {
		return 0
	}
	return uint32((extent + wgSize - 1) / wgSize)
}
