package flame

import "math"

// Camera recipe constants. The WGSL shaders in internal/gpu mirror these
// values; change them in both places or CPU and GPU frames diverge.
const (
	camWobbleAmp    = 0.08
	camWobbleFreqX  = 0.7
	camWobbleFreqY  = 0.9
	camWobbleFreqZ  = 0.4
	camWobblePhaseY = 2.0
	camWobblePhaseZ = 4.0

	camSpinRateY = 0.23
	camSpinRateX = 0.11

	fisheyeBase      = 0.05
	fisheyeKnobScale = 0.50

	focalBase      = 0.60
	focalKnobScale = 0.80

	camDepthShift = 2.0
)

// camera projects trajectory points onto the screen plane. It is derived
// once per frame from the input snapshot and the output resolution, and
// project is a pure function of its argument; invocations share nothing.
type camera struct {
	// wobbleTime drives the sinusoidal displacement and always follows the
	// live clock, even while paused.
	wobbleTime float64

	// spinTime drives the two axis rotations and follows the chaos-game
	// time basis, so a paused frame holds the attractor orientation still.
	spinTime float64

	fisheye float64
	focal   float64
	aspect  float64
}

// newCamera derives the frame's camera from the input snapshot.
func newCamera(in FrameInput, width, height int) camera {
	return camera{
		wobbleTime: in.Time,
		spinTime:   in.ChaosTime(),
		fisheye:    fisheyeBase + fisheyeKnobScale*in.Knobs.C,
		focal:      focalBase + focalKnobScale*in.Knobs.B,
		aspect:     float64(height) / float64(width),
	}
}

// project maps a 3D trajectory point to screen-normalized coordinates in
// X and Y, with Z preserved from the input (the depth-of-field jitter is
// keyed off it). A degenerate divide may yield Inf or NaN; callers reject
// non-finite coordinates at the containment check.
func (c camera) project(p Vec3) Vec3 {
	z := p.Z

	p.X += camWobbleAmp * math.Sin(camWobbleFreqX*c.wobbleTime)
	p.Y += camWobbleAmp * math.Sin(camWobbleFreqY*c.wobbleTime+camWobblePhaseY)
	p.Z += camWobbleAmp * math.Sin(camWobbleFreqZ*c.wobbleTime+camWobblePhaseZ)

	p = rotateY(p, camSpinRateY*c.spinTime)
	p = rotateX(p, camSpinRateX*c.spinTime)

	// Fisheye contraction: points far from the origin are pulled inward in
	// proportion to their squared distance.
	p = p.Div(1 + p.LengthSq()*c.fisheye)

	// Perspective divide by the shifted depth.
	d := p.Z + camDepthShift
	x := p.X * c.focal / d
	y := p.Y * c.focal / d

	return Vec3{X: x * c.aspect, Y: y, Z: z}
}
