package toggle

import (
	"fmt"

	"github.com/alex-vit/nvtoggle/internal/ramp"
)

// Tolerances for "is this display at its defaults". They absorb driver
// rounding, which also means a profile that differs from the defaults by
// less than this is read back as default and gets applied again instead of
// reset.
const (
	VibranceTolerance = 1   // raw DVC units
	RampTolerance     = 256 // per 16-bit ramp entry
)

// Action is what a toggle does to a display.
type Action int

const (
	// ActionApply pushes the custom profile.
	ActionApply Action = iota
	// ActionReset pushes the default profile.
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionApply:
		return "apply"
	case ActionReset:
		return "reset"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// State is what was read back from a display before deciding.
type State struct {
	VibranceRaw int
	VibranceMax int
	Hue         int
	Ramp        *ramp.Ramp // nil if the ramp couldn't be read
}

// Decision is the chosen action and the profile it pushes.
type Decision struct {
	Action  Action
	Profile Profile
}

// IsDefault reports whether s matches the default profile within tolerance.
// An unreadable ramp counts as default.
func (s State) IsDefault() bool {
	defRaw := PercentToDVC(Default.Vibrance, s.VibranceMax)
	if d := s.VibranceRaw - defRaw; d < -VibranceTolerance || d > VibranceTolerance {
		return false
	}
	if s.Hue != Default.Hue {
		return false
	}
	if s.Ramp == nil {
		return true
	}
	def := Default.Ramp()
	return s.Ramp.Within(&def, RampTolerance)
}

// Decide picks Apply(custom) for a display at its defaults and Reset for
// anything else.
func Decide(s State, custom Profile) Decision {
	if s.IsDefault() {
		return Decision{Action: ActionApply, Profile: custom}
	}
	return Decision{Action: ActionReset, Profile: Default}
}

// For returns the decision that performs a fixed action.
func For(a Action, custom Profile) Decision {
	if a == ActionApply {
		return Decision{Action: ActionApply, Profile: custom}
	}
	return Decision{Action: ActionReset, Profile: Default}
}
