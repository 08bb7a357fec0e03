package flame

import (
	"math"
	"testing"
)

func newTestContext(w, h int) (frameContext, *Pixmap) {
	hist := NewHistogram(w, h)
	fc := newFrameContext(FrameInput{Time: 1.5}, w, h, hist)
	return fc, NewPixmap(w, h)
}

// TestResolveEmptyCellIsBlack verifies a zero-density cell resolves to
// opaque black.
func TestResolveEmptyCellIsBlack(t *testing.T) {
	fc, pix := newTestContext(4, 4)
	fc.resolvePixel(0, pix)

	r, g, b, a := pix.At(0, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("empty cell = (%d, %d, %d), want black", r, g, b)
	}
	if a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

// TestResolveClearsCell verifies read-then-clear: after resolving, the
// histogram cell is zero even when it held counts.
func TestResolveClearsCell(t *testing.T) {
	fc, pix := newTestContext(4, 4)
	for i := 0; i < 5000; i++ {
		fc.hist.Splat(3, 128)
	}
	fc.resolvePixel(3, pix)

	if fc.hist.Density(3) != 0 || fc.hist.Aux(3) != 0 {
		t.Errorf("cell not cleared: (%d, %d)", fc.hist.Density(3), fc.hist.Aux(3))
	}
}

// TestResolveBelowThresholdIsBlack verifies densities whose tonemapped
// value is non-positive stay black but are still cleared.
func TestResolveBelowThresholdIsBlack(t *testing.T) {
	fc, pix := newTestContext(4, 4)
	fc.hist.Splat(1, 10) // d = 3, log(0.9) < 0
	fc.resolvePixel(1, pix)

	r, g, b, _ := pix.At(1, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("sub-threshold cell = (%d, %d, %d), want black", r, g, b)
	}
	if fc.hist.Density(1) != 0 {
		t.Error("sub-threshold cell not cleared")
	}
}

// TestResolveDenseCellIsLit verifies a well-populated cell produces a
// non-black color.
func TestResolveDenseCellIsLit(t *testing.T) {
	fc, pix := newTestContext(4, 4)
	for i := 0; i < 20000; i++ {
		fc.hist.Splat(2, 100)
	}
	fc.resolvePixel(2, pix)

	r, g, b, _ := pix.At(2, 0)
	if r == 0 && g == 0 && b == 0 {
		t.Error("dense cell resolved to black")
	}
}

// TestResolveDeterministic verifies identical histogram contents resolve
// to identical pixels.
func TestResolveDeterministic(t *testing.T) {
	fcA, pixA := newTestContext(2, 2)
	fcB, pixB := newTestContext(2, 2)
	for i := 0; i < 777; i++ {
		fcA.hist.Splat(1, 42)
		fcB.hist.Splat(1, 42)
	}
	fcA.resolvePixel(1, pixA)
	fcB.resolvePixel(1, pixB)

	for i, v := range pixA.Data() {
		if pixB.Data()[i] != v {
			t.Fatalf("pixel data diverged at byte %d", i)
		}
	}
}

// TestTonemapMonotonic verifies the brightness scalar never decreases as
// density grows, across raw counts from a single hit to far past the
// log scale's knee.
func TestTonemapMonotonic(t *testing.T) {
	prevV := math.Inf(-1)
	prevRaw := uint32(0)
	for raw := uint32(1); raw < 4<<20; raw = raw + raw/8 + 1 {
		v := tonemap(float64(raw) * densityGain)
		if v < prevV {
			t.Fatalf("tonemap(raw=%d) = %v < tonemap(raw=%d) = %v",
				raw, v, prevRaw, prevV)
		}
		prevV = v
		prevRaw = raw
	}

	// Unit step near the dense end must not dip either.
	const dense = 1 << 20
	if tonemap(dense*densityGain) > tonemap((dense+1)*densityGain) {
		t.Error("tonemap decreased over a unit density step")
	}
}

// TestEncodeChannel exercises the gamma encoder's edge cases.
func TestEncodeChannel(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{-0.5, 0},
		{math.NaN(), 0},
		{1, 255},
		{2, 255},
	}
	for _, c := range cases {
		if got := encodeChannel(c.in); got != c.want {
			t.Errorf("encodeChannel(%v) = %d, want %d", c.in, got, c.want)
		}
	}

	// Monotonic over the open interval.
	prev := encodeChannel(0.001)
	for v := 0.01; v < 1; v += 0.01 {
		cur := encodeChannel(v)
		if cur < prev {
			t.Fatalf("encodeChannel not monotonic at %v", v)
		}
		prev = cur
	}
}
