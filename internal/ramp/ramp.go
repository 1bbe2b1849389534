// Package ramp builds the 3×256 gamma lookup tables that GDI's
// SetDeviceGammaRamp expects.
package ramp

import "math"

// Size is the number of entries per channel.
const Size = 256

// Ramp is a 3×256 array of uint16 values (R, G, B channels).
type Ramp [3][Size]uint16

// Build constructs a gamma ramp from brightness and contrast (0.5 is neutral
// for both), gamma (1.0 is neutral) and temperature (-100 cool .. +100 warm).
// Inputs are expected to be clamped by the caller.
func Build(brightness, contrast, gamma float64, temperature int) Ramp {
	// Warm boosts red and slightly green, cuts blue. Cool is the mirror.
	tf := float64(temperature) / 100.0
	redAdj := 1.0 + tf*0.1
	greenAdj := 1.0 + tf*0.02
	blueAdj := 1.0 - tf*0.1

	var r Ramp
	for i := range Size {
		v := float64(i) / 255.0

		if gamma != 1.0 {
			v = math.Pow(v, 1.0/gamma)
		}

		v = (v-0.5)*(contrast*2.0) + 0.5 + (brightness - 0.5)
		v = math.Max(0, math.Min(1, v))

		r[0][i] = quantize(v * redAdj)
		r[1][i] = quantize(v * greenAdj)
		r[2][i] = quantize(v * blueAdj)
	}
	return r
}

// Identity returns the linear ramp the OS installs by default.
func Identity() Ramp {
	return Build(0.5, 0.5, 1.0, 0)
}

// Within reports whether every entry of r is within tol of the matching
// entry of other.
func (r *Ramp) Within(other *Ramp, tol int) bool {
	for ch := range 3 {
		for i := range Size {
			d := int(r[ch][i]) - int(other[ch][i])
			if d < -tol || d > tol {
				return false
			}
		}
	}
	return true
}

func quantize(c float64) uint16 {
	return uint16(math.Round(math.Min(c, 1.0) * 65535.0))
}
