package flame

import "math"

// Tonemap and display constants. Mirrored by the WGSL resolve shader.
const (
	// tonemapScale compresses the heavy-tailed hit counts: most cells hold
	// a handful of hits while a few hold hundreds of thousands, so the
	// display scalar is log(density·0.3)/log(tonemapScale).
	tonemapScale = 124452.7

	densityGain  = 3.0
	tonemapCoeff = 0.3

	gammaExponent = 1.0 / 0.45454545

	hueDriftDensity = 0.10
	hueDriftAux     = 0.85
)

// resolvePixel turns one histogram cell into a display color, writes it to
// the pixmap, and clears the cell. It must only run after the sampler
// barrier; reads and the clearing stores are plain, not atomic.
func (fc *frameContext) resolvePixel(idx int, pix *Pixmap) {
	dRaw, aRaw := fc.hist.Take(idx)

	var rgb Vec3
	if dRaw > 0 {
		d := float64(dRaw) * densityGain
		a := float64(aRaw) * densityGain

		// Palette feedback: drift the second stop's hue by the log of this
		// pixel's own density and the mean branch draw recovered from the
		// aux plane. Bright regions slide hue; branch mix tints it.
		meanAux := a / (d * auxWeightScale)
		drift := hueDriftDensity*math.Log1p(d) + hueDriftAux*meanAux
		pal := basePalette
		pal[1] = rotateHue(pal[1], drift)

		v := tonemap(d)
		if v > 0 {
			rgb = pal.At(v).Mul(v)
		}
	}

	pix.setRGB(idx,
		encodeChannel(rgb.X),
		encodeChannel(rgb.Y),
		encodeChannel(rgb.Z))
}

// tonemap maps a gained density to the display brightness scalar. It is
// strictly increasing in d, so denser cells never resolve darker.
func tonemap(d float64) float64 {
	return math.Log(d*tonemapCoeff) / math.Log(tonemapScale)
}

// encodeChannel clamps a linear channel to [0,1], applies the display gamma
// curve, and quantizes to 8 bits.
func encodeChannel(c float64) uint8 {
	if !(c > 0) { // also catches NaN
		return 0
	}
	if c > 1 {
		c = 1
	}
	return uint8(math.Pow(c, gammaExponent)*255 + 0.5)
}
