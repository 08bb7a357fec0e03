package flame

// Chaos-game recipe constants. Branch thresholds and per-branch formulas
// are fixed parameters of this particular attractor; reweighting or
// reordering them changes the rendered shape. The WGSL sampler shader
// mirrors every value here.
const (
	// Iterations is the trajectory length of every sampler invocation.
	Iterations = 1060

	branchContractP = 0.10
	branchBasinP    = 0.20
	mirrorP         = 0.5

	contractStrength = 1.2
	basinBase        = 0.9
	basinKnobScale   = 0.35

	orbitRate      = 0.25
	orbitKnobScale = 2.2

	// auxWeightScale converts the branch-selection draw in [0,1) to the
	// integer weight accumulated in the histogram's aux plane.
	auxWeightScale = 255
)

var (
	basinOffset = Vec3{X: 0.25, Y: -0.15, Z: 0.10}
	orbitShift  = Vec3{X: 0.85, Y: 0.12, Z: 0.0}
)

// frameContext is the immutable per-frame state shared (read-only) by all
// sampler and resolver invocations.
type frameContext struct {
	width, height int
	chaosTime     float64
	knobs         Knobs
	cam           camera
	hist          *Histogram
}

// newFrameContext snapshots one frame's derived state.
func newFrameContext(in FrameInput, width, height int, hist *Histogram) frameContext {
	return frameContext{
		width:     width,
		height:    height,
		chaosTime: in.ChaosTime(),
		knobs:     in.Knobs,
		cam:       newCamera(in, width, height),
		hist:      hist,
	}
}

// sampleCell runs one complete chaos-game trajectory for the cell at
// (x, y) and splats every projected point into the histogram. The cell
// coordinates serve only as an independent seed source; trajectories are
// free to land anywhere on the sensor.
func (fc *frameContext) sampleCell(x, y int) {
	rng := SeedAt(x, y)
	p := rng.Float3()

	// Per-invocation time jitter decorrelates temporal aliasing across
	// cells sharing the same iteration count.
	t := fc.chaosTime + rng.Float()/Iterations

	basinStrength := basinBase + basinKnobScale*fc.knobs.D
	orbitAngle := fc.knobs.A*orbitKnobScale + t*orbitRate

	cells := fc.width * fc.height
	for i := 0; i < Iterations; i++ {
		r := rng.Float()
		switch {
		case r < branchContractP:
			// Inverse-square contraction toward the origin, mirrored half
			// the time to split the attractor into two lobes.
			p = p.Div(p.Dot(p) * contractStrength)
			if rng.Float() < mirrorP {
				p = p.Neg()
			}
		case r < branchBasinP:
			// The second nonlinear basin, knob-modulated and displaced.
			p = p.Div(p.Dot(p) * basinStrength).Add(basinOffset)
		default:
			// Dominant affine branch: animated rotation plus translation.
			p = rotateZ(p, orbitAngle).Add(orbitShift)
		}

		q := fc.cam.project(p)
		u := q.X*0.5 + 0.5
		v := q.Y*0.5 + 0.5

		// Depth-of-field jitter: in-disk offset scaled by defocus amount
		// and distance from the focal plane. Drawn unconditionally so the
		// stream position never depends on knob values.
		jitter := rng.InDisk()
		defocus := fc.knobs.DOFAmount * abs(q.Z-fc.knobs.DOFFocalDist)
		u += jitter.X * defocus
		v += jitter.Y * defocus

		// Containment test: NaN coordinates fail both comparisons and are
		// dropped here rather than guarded upstream.
		if !(u > 0 && u < 1 && v > 0 && v < 1) {
			continue
		}
		idx := int(v*float64(fc.height))*fc.width + int(u*float64(fc.width))
		if idx < 0 || idx >= cells {
			continue
		}
		fc.hist.Splat(idx, uint32(r*auxWeightScale))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
