package toggle

import "math"

// DefaultVibranceMax is the raw DVC ceiling assumed when the driver can't
// be asked. NVAPI reports 0-63 on current GeForce drivers.
const DefaultVibranceMax = 63

// PercentToDVC converts a control panel vibrance percentage (50-100) to the
// driver's raw DVC level (0-max). 50% is raw 0, 100% is raw max.
func PercentToDVC(percent, dvcMax int) int {
	if percent <= 50 {
		return 0
	}
	if percent >= 100 {
		return dvcMax
	}
	return int(math.Round(float64((percent-50)*dvcMax) / 50))
}

// DVCToPercent converts a raw DVC level back to a control panel percentage.
func DVCToPercent(raw, dvcMax int) int {
	if dvcMax == 0 {
		return 50
	}
	return 50 + int(math.Round(float64(raw*50)/float64(dvcMax)))
}
