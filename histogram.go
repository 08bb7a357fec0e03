package flame

import "sync/atomic"

// Histogram is the per-pixel accumulation buffer shared by all sampler
// invocations of a frame: two parallel uint32 planes, a hit count and an
// accumulated auxiliary weight per cell.
//
// Write discipline: during the sampler stage the only permitted mutation is
// Splat (atomic adds). The resolver runs after the sampler barrier and may
// use the plain read-then-clear Take. Every cell is exactly zero between a
// resolver pass and the next sampler pass.
type Histogram struct {
	width   int
	height  int
	density []uint32
	aux     []uint32
}

// NewHistogram allocates a zeroed histogram for a width×height sensor.
func NewHistogram(width, height int) *Histogram {
	return &Histogram{
		width:   width,
		height:  height,
		density: make([]uint32, width*height),
		aux:     make([]uint32, width*height),
	}
}

// Width returns the sensor width in cells.
func (h *Histogram) Width() int { return h.width }

// Height returns the sensor height in cells.
func (h *Histogram) Height() int { return h.height }

// Len returns the number of cells per plane.
func (h *Histogram) Len() int { return len(h.density) }

// Splat atomically adds one hit and the given auxiliary weight to the cell
// at the linear index idx. Safe for concurrent use; two splats landing on
// the same cell are both reflected in the final counts.
//
// The caller must have bounds-checked idx already.
func (h *Histogram) Splat(idx int, auxWeight uint32) {
	atomic.AddUint32(&h.density[idx], 1)
	atomic.AddUint32(&h.aux[idx], auxWeight)
}

// Take reads both counters of the cell at idx and resets them to zero.
// Plain loads and stores: only valid while no sampler stage is running.
func (h *Histogram) Take(idx int) (density, aux uint32) {
	density = h.density[idx]
	aux = h.aux[idx]
	h.density[idx] = 0
	h.aux[idx] = 0
	return density, aux
}

// Density returns the current hit count of the cell at idx.
func (h *Histogram) Density(idx int) uint32 { return atomic.LoadUint32(&h.density[idx]) }

// Aux returns the current auxiliary accumulator of the cell at idx.
func (h *Histogram) Aux(idx int) uint32 { return atomic.LoadUint32(&h.aux[idx]) }

// Reset zeroes every cell in both planes. Hosts call this indirectly via
// Renderer.Resize; a steady-state frame loop never needs it because the
// resolver clears each cell it reads.
func (h *Histogram) Reset() {
	clear(h.density)
	clear(h.aux)
}
