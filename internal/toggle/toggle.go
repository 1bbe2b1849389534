package toggle

import (
	"errors"
	"fmt"

	"github.com/alex-vit/nvtoggle/internal/ramp"
	"go.uber.org/zap"
)

// ColorControl is the vendor driver's view of one display.
type ColorControl interface {
	// Vibrance returns the raw DVC range and current level.
	Vibrance() (min, current, max int, err error)
	SetVibrance(level int) error
	Hue() (int, error)
	SetHue(angle int) error
}

// RampDevice is an acquired OS device context for one display.
type RampDevice interface {
	GammaRamp() (ramp.Ramp, error)
	SetGammaRamp(r *ramp.Ramp) error
	Close() error
}

// Target is a display that can be toggled. OpenRamp acquires the device
// context; it is closed before Toggle returns.
type Target interface {
	Name() string
	Colors() ColorControl
	OpenRamp() (RampDevice, error)
}

// Outcome reports what a toggle did to one display. Err joins every failed
// read or write; none of them stopped the toggle.
type Outcome struct {
	Display     string
	Decision    Decision
	VibranceRaw int
	Err         error
}

// Toggler flips displays between the default profile and Custom.
type Toggler struct {
	Custom Profile
	Log    *zap.SugaredLogger
}

// New returns a Toggler for the given custom profile. A nil logger discards.
func New(custom Profile, log *zap.SugaredLogger) *Toggler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Toggler{Custom: custom, Log: log}
}

// Toggle reads t's current state, decides, and applies the result.
func (tg *Toggler) Toggle(t Target) Outcome {
	return tg.run(t, func(s State) Decision { return Decide(s, tg.Custom) })
}

// Force applies a fixed action to t without looking at its state.
func (tg *Toggler) Force(t Target, a Action) Outcome {
	return tg.run(t, func(State) Decision { return For(a, tg.Custom) })
}

// ToggleAll toggles each target independently, in order.
func (tg *Toggler) ToggleAll(targets []Target) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))
	for _, t := range targets {
		outcomes = append(outcomes, tg.Toggle(t))
	}
	return outcomes
}

func (tg *Toggler) run(t Target, decide func(State) Decision) Outcome {
	name := t.Name()
	var errs []error

	dev, closeDev, err := tg.openRamp(t)
	if err != nil {
		errs = append(errs, fmt.Errorf("open device context: %w", err))
	}
	defer closeDev()

	state := tg.readState(name, t.Colors(), dev)
	d := decide(state)
	tg.Log.Infow("toggle: decided", "display", name, "action", d.Action,
		"vibrance_raw", state.VibranceRaw, "vibrance_max", state.VibranceMax,
		"hue", state.Hue, "ramp_read", state.Ramp != nil)

	out := Outcome{
		Display:     name,
		Decision:    d,
		VibranceRaw: PercentToDVC(d.Profile.Vibrance, state.VibranceMax),
	}

	cc := t.Colors()
	if err := cc.SetVibrance(out.VibranceRaw); err != nil {
		tg.Log.Warnw("toggle: set vibrance failed", "display", name, "level", out.VibranceRaw, "err", err)
		errs = append(errs, fmt.Errorf("set vibrance: %w", err))
	}
	if err := cc.SetHue(d.Profile.Hue); err != nil {
		tg.Log.Warnw("toggle: set hue failed", "display", name, "angle", d.Profile.Hue, "err", err)
		errs = append(errs, fmt.Errorf("set hue: %w", err))
	}
	if dev != nil {
		r := d.Profile.Ramp()
		if err := dev.SetGammaRamp(&r); err != nil {
			tg.Log.Warnw("toggle: set gamma ramp failed", "display", name, "err", err)
			errs = append(errs, fmt.Errorf("set gamma ramp: %w", err))
		}
	}

	out.Err = errors.Join(errs...)
	return out
}

// Inspect reads t's current state without changing anything.
func (tg *Toggler) Inspect(t Target) State {
	dev, closeDev, _ := tg.openRamp(t)
	defer closeDev()
	return tg.readState(t.Name(), t.Colors(), dev)
}

// openRamp acquires t's device context. On failure dev is nil; closeDev is
// always safe to call.
func (tg *Toggler) openRamp(t Target) (dev RampDevice, closeDev func(), err error) {
	dev, err = t.OpenRamp()
	if err != nil {
		tg.Log.Warnw("toggle: open device context failed", "display", t.Name(), "err", err)
		return nil, func() {}, err
	}
	return dev, func() {
		if err := dev.Close(); err != nil {
			tg.Log.Warnw("toggle: close device context failed", "display", t.Name(), "err", err)
		}
	}, nil
}

// readState falls back to the documented defaults for anything the driver
// or OS won't report: raw vibrance 0 of 63, hue 0, ramp unknown.
func (tg *Toggler) readState(name string, cc ColorControl, dev RampDevice) State {
	s := State{VibranceMax: DefaultVibranceMax}

	if _, cur, hi, err := cc.Vibrance(); err != nil {
		tg.Log.Debugw("toggle: read vibrance failed, assuming default", "display", name, "err", err)
	} else {
		s.VibranceRaw, s.VibranceMax = cur, hi
	}

	if hue, err := cc.Hue(); err != nil {
		tg.Log.Debugw("toggle: read hue failed, assuming default", "display", name, "err", err)
	} else {
		s.Hue = hue
	}

	if dev != nil {
		if r, err := dev.GammaRamp(); err != nil {
			tg.Log.Debugw("toggle: read gamma ramp failed, assuming default", "display", name, "err", err)
		} else {
			s.Ramp = &r
		}
	}
	return s
}
