package flame

import "math"

// Hash32 mixes a 32-bit input into a well-distributed 32-bit output using
// xorshift/multiply avalanche rounds. It is pure and stable across versions;
// two calls with the same input always produce the same output.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// RNG is a deterministic hash-driven random stream. Each draw advances the
// 32-bit state through Hash32. The zero value is a valid stream (seed 0).
//
// RNG is a value type owned by exactly one invocation; it must not be shared
// between goroutines.
type RNG struct {
	state uint32
}

// NewRNG returns a stream starting at the given seed.
func NewRNG(seed uint32) RNG {
	return RNG{state: seed}
}

// SeedAt returns the stream for the screen cell at (x, y). Coordinates are
// decorrelated with large odd constants before avalanching so that adjacent
// cells start far apart in the sequence.
//
// The seed does not include a frame counter: every frame replays the same
// per-cell sequence, which keeps the accumulated attractor shape stable
// under the per-frame clear-and-refill cycle.
func SeedAt(x, y int) RNG {
	h := uint32(x)*0x9e3779b1 ^ uint32(y)*0x85ebca6b
	return RNG{state: Hash32(h)}
}

// Next advances the stream and returns the new raw 32-bit state.
func (r *RNG) Next() uint32 {
	r.state = Hash32(r.state)
	return r.state
}

// Float draws a uniform float in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()) * (1.0 / 4294967296.0)
}

// Float2 draws two independent uniform floats in [0, 1).
func (r *RNG) Float2() Vec2 {
	return Vec2{X: r.Float(), Y: r.Float()}
}

// Float3 draws three independent uniform floats in [0, 1).
func (r *RNG) Float3() Vec3 {
	return Vec3{X: r.Float(), Y: r.Float(), Z: r.Float()}
}

// InDisk draws a point uniformly distributed over the unit disk, used for
// depth-of-field jitter. The radius is the square root of a uniform draw so
// that density is uniform per area, not per radius.
func (r *RNG) InDisk() Vec2 {
	rad := math.Sqrt(r.Float())
	theta := 2 * math.Pi * r.Float()
	s, c := math.Sincos(theta)
	return Vec2{X: rad * c, Y: rad * s}
}
