package toggle

import (
	"errors"

	"github.com/alex-vit/nvtoggle/internal/ramp"
)

var errFake = errors.New("fake: unavailable")

// fakeColors is an in-memory driver. With broken set, every call fails the
// way a driver missing the DVC/HUE entry points does.
type fakeColors struct {
	raw, max int
	hue      int
	broken   bool
	sets     int
}

func (f *fakeColors) Vibrance() (int, int, int, error) {
	if f.broken {
		return 0, 0, 0, errFake
	}
	return 0, f.raw, f.max, nil
}

func (f *fakeColors) SetVibrance(level int) error {
	f.sets++
	if f.broken {
		return errFake
	}
	f.raw = level
	return nil
}

func (f *fakeColors) Hue() (int, error) {
	if f.broken {
		return 0, errFake
	}
	return f.hue, nil
}

func (f *fakeColors) SetHue(angle int) error {
	f.sets++
	if f.broken {
		return errFake
	}
	f.hue = angle
	return nil
}

type fakeDevice struct {
	ramp      ramp.Ramp
	readFail  bool
	writeFail bool
	closed    int
}

func (d *fakeDevice) GammaRamp() (ramp.Ramp, error) {
	if d.readFail {
		return ramp.Ramp{}, errFake
	}
	return d.ramp, nil
}

func (d *fakeDevice) SetGammaRamp(r *ramp.Ramp) error {
	if d.writeFail {
		return errFake
	}
	d.ramp = *r
	return nil
}

func (d *fakeDevice) Close() error {
	d.closed++
	return nil
}

type fakeTarget struct {
	name    string
	colors  *fakeColors
	dev     *fakeDevice
	openErr error
	opened  int
}

func (t *fakeTarget) Name() string         { return t.name }
func (t *fakeTarget) Colors() ColorControl { return t.colors }

func (t *fakeTarget) OpenRamp() (RampDevice, error) {
	t.opened++
	if t.openErr != nil {
		return nil, t.openErr
	}
	return t.dev, nil
}

func newDefaultTarget(name string) *fakeTarget {
	return &fakeTarget{
		name:   name,
		colors: &fakeColors{max: 63},
		dev:    &fakeDevice{ramp: ramp.Identity()},
	}
}
