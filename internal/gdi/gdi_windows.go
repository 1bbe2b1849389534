//go:build windows

// Package gdi acquires display device contexts and reads and writes their
// gamma ramps.
package gdi

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/alex-vit/nvtoggle/internal/ramp"
	"golang.org/x/sys/windows"
)

var (
	modGdi32  = windows.NewLazySystemDLL("gdi32.dll")
	modUser32 = windows.NewLazySystemDLL("user32.dll")

	procCreateDCW          = modGdi32.NewProc("CreateDCW")
	procDeleteDC           = modGdi32.NewProc("DeleteDC")
	procGetDeviceGammaRamp = modGdi32.NewProc("GetDeviceGammaRamp")
	procSetDeviceGammaRamp = modGdi32.NewProc("SetDeviceGammaRamp")

	procGetDC               = modUser32.NewProc("GetDC")
	procReleaseDC           = modUser32.NewProc("ReleaseDC")
	procEnumDisplayDevicesW = modUser32.NewProc("EnumDisplayDevicesW")
)

const displayDevicePrimaryDevice = 0x4

// displayDevice is DISPLAY_DEVICEW.
type displayDevice struct {
	cb           uint32
	deviceName   [32]uint16
	deviceString [128]uint16
	stateFlags   uint32
	deviceID     [128]uint16
	deviceKey    [128]uint16
}

// DC is an acquired device context. Close releases it.
type DC struct {
	hdc    uintptr
	screen bool // from GetDC, released with ReleaseDC
	closed bool
}

func createDC(device string) (uintptr, error) {
	driver, err := syscall.UTF16PtrFromString("DISPLAY")
	if err != nil {
		return 0, err
	}
	var dev *uint16
	if device != "" {
		if dev, err = syscall.UTF16PtrFromString(device); err != nil {
			return 0, err
		}
	}
	hdc, _, callErr := procCreateDCW.Call(uintptr(unsafe.Pointer(driver)), uintptr(unsafe.Pointer(dev)), 0, 0)
	if hdc == 0 {
		return 0, fmt.Errorf("gdi: CreateDC(%q): %w", device, callErr)
	}
	return hdc, nil
}

// OpenDisplay acquires a device context for the named display
// (\\.\DISPLAYn). If that fails it falls back to the screen DC.
func OpenDisplay(device string) (*DC, error) {
	hdc, err := createDC(device)
	if err == nil {
		return &DC{hdc: hdc}, nil
	}
	screen, _, callErr := procGetDC.Call(0)
	if screen == 0 {
		return nil, errors.Join(err, fmt.Errorf("gdi: GetDC: %w", callErr))
	}
	return &DC{hdc: screen, screen: true}, nil
}

// OpenPrimary acquires a device context for the primary display device,
// falling back to one spanning the whole desktop.
func OpenPrimary() (*DC, error) {
	if name, ok := primaryDevice(); ok {
		if hdc, err := createDC(name); err == nil {
			return &DC{hdc: hdc}, nil
		}
	}
	hdc, err := createDC("")
	if err != nil {
		return nil, err
	}
	return &DC{hdc: hdc}, nil
}

func primaryDevice() (string, bool) {
	for i := uint32(0); ; i++ {
		dd := displayDevice{}
		dd.cb = uint32(unsafe.Sizeof(dd))
		ret, _, _ := procEnumDisplayDevicesW.Call(0, uintptr(i), uintptr(unsafe.Pointer(&dd)), 0)
		if ret == 0 {
			return "", false
		}
		if dd.stateFlags&displayDevicePrimaryDevice != 0 {
			return windows.UTF16ToString(dd.deviceName[:]), true
		}
	}
}

// GammaRamp reads the installed gamma ramp.
func (dc *DC) GammaRamp() (ramp.Ramp, error) {
	var r ramp.Ramp
	ret, _, err := procGetDeviceGammaRamp.Call(dc.hdc, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return ramp.Ramp{}, fmt.Errorf("gdi: GetDeviceGammaRamp: %w", err)
	}
	return r, nil
}

// SetGammaRamp installs r.
func (dc *DC) SetGammaRamp(r *ramp.Ramp) error {
	ret, _, err := procSetDeviceGammaRamp.Call(dc.hdc, uintptr(unsafe.Pointer(r)))
	if ret == 0 {
		return fmt.Errorf("gdi: SetDeviceGammaRamp: %w", err)
	}
	return nil
}

// Close releases the device context. Extra calls are no-ops.
func (dc *DC) Close() error {
	if dc.closed {
		return nil
	}
	dc.closed = true
	if dc.screen {
		if ret, _, err := procReleaseDC.Call(0, dc.hdc); ret == 0 {
			return fmt.Errorf("gdi: ReleaseDC: %w", err)
		}
		return nil
	}
	if ret, _, err := procDeleteDC.Call(dc.hdc); ret == 0 {
		return fmt.Errorf("gdi: DeleteDC: %w", err)
	}
	return nil
}
