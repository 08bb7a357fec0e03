// Package flame renders a fractal-flame-style image by stochastic iteration
// of a small branching set of nonlinear maps (the "chaos game").
//
// # Overview
//
// Every frame runs two data-parallel stages over a shared histogram buffer:
//
//  1. Sampler: one independent trajectory per screen cell, 1060 iterations
//     each, splatting projected points into per-pixel hit counters with
//     atomic adds.
//  2. Resolver: per-pixel log tonemap, palette lookup, gamma encode, then
//     clearing the counters so the next frame starts from zero.
//
// The sampler completes fully before the resolver starts (a per-frame
// barrier); within a stage, cells are fully independent.
//
// # Quick Start
//
//	r := flame.NewRenderer(800, 600)
//	defer r.Close()
//
//	pix := r.RenderFrame(flame.FrameInput{Time: elapsed, Knobs: knobs})
//	pix.SavePNG("frame.png")
//
// # Determinism
//
// Cell seeding is a pure function of cell coordinates, atomic adds commute,
// and the resolver is per-pixel pure, so the output bytes of a frame depend
// only on FrameInput and the resolution — never on worker count or
// goroutine scheduling.
//
// # GPU acceleration
//
// The CPU path is the default. Importing the gpu subpackage registers a
// wgpu compute accelerator that runs both stages on the GPU and falls back
// to the CPU path transparently when no device is available:
//
//	import _ "github.com/gogpu/flame/gpu"
package flame
