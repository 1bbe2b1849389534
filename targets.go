//go:build windows

package main

import (
	"github.com/alex-vit/nvtoggle/internal/gdi"
	"github.com/alex-vit/nvtoggle/internal/nvapi"
	"github.com/alex-vit/nvtoggle/internal/toggle"
)

// nvTarget pairs an NVIDIA display handle with the GDI device context of
// the same display.
type nvTarget struct {
	d       *nvapi.Display
	primary bool
}

func (t nvTarget) Name() string                { return t.d.Name() }
func (t nvTarget) Colors() toggle.ColorControl { return t.d }

func (t nvTarget) OpenRamp() (toggle.RampDevice, error) {
	var (
		dc  *gdi.DC
		err error
	)
	if t.primary {
		dc, err = gdi.OpenPrimary()
	} else {
		dc, err = gdi.OpenDisplay(t.d.Name())
	}
	if err != nil {
		return nil, err
	}
	return dc, nil
}

// displayTargets returns every NVIDIA display, or just the primary one.
func displayTargets(s *nvapi.Session, all bool) ([]toggle.Target, error) {
	if !all {
		d, err := s.Display(0)
		if err != nil {
			return nil, err
		}
		return []toggle.Target{nvTarget{d: d, primary: true}}, nil
	}

	ds, err := s.Displays()
	if err != nil {
		return nil, err
	}
	targets := make([]toggle.Target, len(ds))
	for i, d := range ds {
		targets[i] = nvTarget{d: d}
	}
	return targets, nil
}
