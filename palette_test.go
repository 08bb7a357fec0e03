package flame

import (
	"math"
	"testing"
)

// TestPaletteWraps verifies the lookup index is cyclic with period 1.
func TestPaletteWraps(t *testing.T) {
	for _, v := range []float64{0.0, 0.13, 0.5, 0.99} {
		a := basePalette.At(v)
		b := basePalette.At(v + 1)
		c := basePalette.At(v - 3)
		if !vecNear(a, b, 1e-12) || !vecNear(a, c, 1e-12) {
			t.Errorf("At(%v) not cyclic: %+v, %+v, %+v", v, a, b, c)
		}
	}
}

// TestPaletteAtStops verifies exact stop positions return the stop colors,
// including the wrap from the last stop back to the first.
func TestPaletteAtStops(t *testing.T) {
	for i := 0; i < paletteStops; i++ {
		v := float64(i) / paletteStops
		got := basePalette.At(v)
		if !vecNear(got, basePalette[i], 1e-12) {
			t.Errorf("At(%v) = %+v, want stop %d %+v", v, got, i, basePalette[i])
		}
	}
}

// TestPaletteMidpoint verifies the smoothstep blend hits the exact average
// at the segment midpoint.
func TestPaletteMidpoint(t *testing.T) {
	mid := basePalette.At(1.0 / (2 * paletteStops))
	want := basePalette[0].Lerp(basePalette[1], 0.5)
	if !vecNear(mid, want, 1e-12) {
		t.Errorf("midpoint = %+v, want %+v", mid, want)
	}
}

// TestRotateHueIdentity verifies a zero angle leaves the color unchanged.
func TestRotateHueIdentity(t *testing.T) {
	c := Vec3{X: 0.95, Y: 0.45, Z: 0.15}
	got := rotateHue(c, 0)
	if !vecNear(got, c, 1e-12) {
		t.Errorf("rotateHue(c, 0) = %+v, want %+v", got, c)
	}
}

// TestRotateHueFullTurn verifies a 2π rotation is the identity.
func TestRotateHueFullTurn(t *testing.T) {
	c := Vec3{X: 0.3, Y: 0.65, Z: 0.9}
	got := rotateHue(c, 2*math.Pi)
	if !vecNear(got, c, 1e-9) {
		t.Errorf("rotateHue(c, 2π) = %+v, want %+v", got, c)
	}
}

// TestRotateHuePreservesGrey verifies colors on the grey axis are fixed
// points of the rotation.
func TestRotateHuePreservesGrey(t *testing.T) {
	grey := Vec3{X: 0.4, Y: 0.4, Z: 0.4}
	got := rotateHue(grey, 1.234)
	if !vecNear(got, grey, 1e-9) {
		t.Errorf("rotateHue(grey) = %+v, want %+v", got, grey)
	}
}

// TestRotateHuePreservesLuminance verifies the channel sum (projection on
// the grey axis) is invariant under rotation.
func TestRotateHuePreservesLuminance(t *testing.T) {
	c := Vec3{X: 0.9, Y: 0.85, Z: 0.7}
	got := rotateHue(c, 0.8)
	sumIn := c.X + c.Y + c.Z
	sumOut := got.X + got.Y + got.Z
	if math.Abs(sumIn-sumOut) > 1e-9 {
		t.Errorf("channel sum changed: %v -> %v", sumIn, sumOut)
	}
}

func vecNear(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}
