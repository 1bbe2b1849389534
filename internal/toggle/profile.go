// Package toggle decides whether a display is in its default or customized
// state and pushes the opposite settings to it.
package toggle

import "github.com/alex-vit/nvtoggle/internal/ramp"

// Profile is one full set of display color settings.
type Profile struct {
	Vibrance    int     // digital vibrance, 50-100 %
	Hue         int     // hue angle, 0-359 degrees
	Brightness  float64 // 0-1, 0.5 neutral
	Contrast    float64 // 0-1, 0.5 neutral
	Gamma       float64 // 0.5-3.0, 1.0 neutral
	Temperature int     // -100 (cool) .. +100 (warm)
}

// Default is the neutral state the toggle resets to.
var Default = Profile{
	Vibrance:    50,
	Hue:         0,
	Brightness:  0.5,
	Contrast:    0.5,
	Gamma:       1.0,
	Temperature: 0,
}

// Ramp builds the gamma ramp for the profile's calibration values.
func (p Profile) Ramp() ramp.Ramp {
	return ramp.Build(p.Brightness, p.Contrast, p.Gamma, p.Temperature)
}

// Clamp returns p with every field forced into its valid range.
func (p Profile) Clamp() Profile {
	p.Vibrance = min(max(p.Vibrance, 50), 100)
	p.Hue = min(max(p.Hue, 0), 359)
	p.Brightness = min(max(p.Brightness, 0), 1)
	p.Contrast = min(max(p.Contrast, 0), 1)
	p.Gamma = min(max(p.Gamma, 0.5), 3.0)
	p.Temperature = min(max(p.Temperature, -100), 100)
	return p
}
