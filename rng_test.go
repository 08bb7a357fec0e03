package flame

import (
	"math"
	"testing"
)

// TestHash32Deterministic verifies the mix function is pure.
func TestHash32Deterministic(t *testing.T) {
	for _, x := range []uint32{0, 1, 42, 0xdeadbeef, 0xffffffff} {
		if Hash32(x) != Hash32(x) {
			t.Errorf("Hash32(%#x) not deterministic", x)
		}
	}
}

// TestHash32Avalanche verifies that single-bit input changes flip roughly
// half the output bits.
func TestHash32Avalanche(t *testing.T) {
	const samples = 1000
	totalFlipped := 0
	for i := uint32(0); i < samples; i++ {
		base := Hash32(i)
		for bit := 0; bit < 32; bit++ {
			flipped := Hash32(i ^ (1 << bit))
			totalFlipped += popcount(base ^ flipped)
		}
	}
	mean := float64(totalFlipped) / float64(samples*32)
	if mean < 14 || mean > 18 {
		t.Errorf("mean flipped bits = %.2f, want near 16", mean)
	}
}

func popcount(x uint32) int {
	n := 0
	for ; x != 0; x &= x - 1 {
		n++
	}
	return n
}

// TestSeedAtDecorrelated verifies adjacent cells start with distinct seeds.
func TestSeedAtDecorrelated(t *testing.T) {
	seen := make(map[uint32]bool)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			r := SeedAt(x, y)
			s := r.Next()
			if seen[s] {
				t.Fatalf("duplicate first draw for cell (%d, %d)", x, y)
			}
			seen[s] = true
		}
	}
}

// TestSeedAtStable verifies a cell's stream replays identically; the
// accumulated attractor shape depends on this.
func TestSeedAtStable(t *testing.T) {
	a := SeedAt(17, 23)
	b := SeedAt(17, 23)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("streams diverged at draw %d", i)
		}
	}
}

// TestFloatRange verifies Float stays in [0, 1).
func TestFloatRange(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 10000; i++ {
		f := r.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("Float() = %v, want [0, 1)", f)
		}
	}
}

// TestFloatUniform checks the mean of many draws is near 0.5.
func TestFloatUniform(t *testing.T) {
	r := NewRNG(7)
	const n = 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += r.Float()
	}
	mean := sum / n
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("mean = %.4f, want near 0.5", mean)
	}
}

// TestInDiskContained verifies every draw lands inside the unit disk.
func TestInDiskContained(t *testing.T) {
	r := NewRNG(3)
	for i := 0; i < 10000; i++ {
		p := r.InDisk()
		if p.Length() > 1 {
			t.Fatalf("InDisk() = %+v outside unit disk", p)
		}
	}
}

// TestInDiskAreaUniform verifies the radius distribution matches an
// area-uniform disk: E[radius] = 2/3.
func TestInDiskAreaUniform(t *testing.T) {
	r := NewRNG(9)
	const n = 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += r.InDisk().Length()
	}
	mean := sum / n
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("mean radius = %.4f, want near 0.667", mean)
	}
}

// TestZeroValueRNG verifies the zero value is a usable stream.
func TestZeroValueRNG(t *testing.T) {
	var r RNG
	if f := r.Float(); f < 0 || f >= 1 {
		t.Errorf("zero-value Float() = %v, want [0, 1)", f)
	}
}
