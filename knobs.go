package flame

// Knobs are the user-tunable scalar parameters of the rendering recipe.
// Each knob is nominally in [0, 1]; values outside that range are not
// rejected, they just push the controlled effect further.
type Knobs struct {
	// A sets the base rotation of the dominant affine branch.
	A float64

	// B sets the effective focal length of the perspective divide.
	B float64

	// C sets the strength of the fisheye contraction.
	C float64

	// D modulates the strength of the secondary nonlinear basin.
	D float64

	// DOFAmount scales the depth-of-field disk jitter. Zero disables
	// defocus blur.
	DOFAmount float64

	// DOFFocalDist is the depth of the focal plane; points at this depth
	// receive no jitter regardless of DOFAmount.
	DOFFocalDist float64

	// Paused freezes the chaos-game time basis at a fixed offset.
	// Secondary camera wobble keeps animating from the live clock.
	Paused bool
}

// FrameInput is the read-only per-frame snapshot the core consumes.
// The host fills it once per frame; the core never mutates it.
type FrameInput struct {
	// Time is the host's monotonically increasing elapsed time in seconds.
	Time float64

	// Cursor is the pointer position in pixels. The active transform code
	// does not consume it, but it is part of the accepted input surface so
	// hosts can wire it once and recipes can pick it up later.
	Cursor [2]float64

	// MouseDown reports whether the primary button is held.
	MouseDown bool

	// MousePress and MouseRelease are the positions of the most recent
	// press and release, in pixels.
	MousePress   [2]float64
	MouseRelease [2]float64

	// Knobs are the user parameters for this frame.
	Knobs Knobs
}

// pausedTimeBase is the frozen chaos-game time basis used while Paused is
// set. Any fixed value works; this one lands mid-orbit so a paused frame
// still shows a developed attractor.
const pausedTimeBase = 42.0

// ChaosTime returns the time basis driving the chaos-game branch rotation
// and camera spin: the live clock normally, pausedTimeBase while paused.
func (in FrameInput) ChaosTime() float64 {
	if in.Knobs.Paused {
		return pausedTimeBase
	}
	return in.Time
}
