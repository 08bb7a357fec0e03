package flame

import "math"

// paletteStops is the number of color stops; lookups wrap cyclically.
const paletteStops = 4

// Palette is a fixed ordered sequence of RGB color stops blended by
// smooth interpolation.
type Palette [paletteStops]Vec3

// basePalette is the recipe's palette. Stop 1 is the one the resolver
// drifts per pixel; see resolvePixel.
var basePalette = Palette{
	{X: 0.05, Y: 0.02, Z: 0.10},
	{X: 0.95, Y: 0.45, Z: 0.15},
	{X: 0.30, Y: 0.65, Z: 0.90},
	{X: 0.90, Y: 0.85, Z: 0.70},
}

// At looks up the palette at scalar index v. The index is reduced modulo 1
// first, so any finite v is valid; the fractional position between two
// stops is eased with smoothstep before the linear blend, and the last
// stop wraps back to the first.
func (p Palette) At(v float64) Vec3 {
	v -= math.Floor(v)
	s := v * paletteStops
	i := int(s)
	f := s - float64(i)
	f = f * f * (3 - 2*f)
	return p[i&(paletteStops-1)].Lerp(p[(i+1)&(paletteStops-1)], f)
}

// rotateHue rotates an RGB color about the grey diagonal (1,1,1)/√3 by
// angle radians, shifting hue while preserving luminance along that axis.
func rotateHue(c Vec3, angle float64) Vec3 {
	sinA, cosA := math.Sincos(angle)
	// Rodrigues rotation with axis k = (1,1,1)/√3:
	// c' = c·cosθ + (k×c)·sinθ + k(k·c)(1−cosθ)
	grey := (c.X + c.Y + c.Z) * (1 - cosA) / 3
	cross := Vec3{X: c.Z - c.Y, Y: c.X - c.Z, Z: c.Y - c.X}.Mul(1 / math.Sqrt(3))
	return c.Mul(cosA).Add(cross.Mul(sinA)).Add(Vec3{X: grey, Y: grey, Z: grey})
}
