//go:build windows

package nvapi

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modNvapi           = windows.NewLazySystemDLL(dllName())
	procQueryInterface = modNvapi.NewProc("nvapi_QueryInterface")
)

func dllName() string {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return "nvapi64.dll"
	}
	return "nvapi.dll"
}

// Session is an initialized NVAPI session. Close unloads it.
type Session struct {
	Caps Capabilities

	unload          uintptr
	getErrorMessage uintptr
	enumDisplay     uintptr
	displayName     uintptr
	getDVCInfo      uintptr
	setDVCLevel     uintptr
	getHUEInfo      uintptr
	setHUEAngle     uintptr
}

func query(id uint32) uintptr {
	p, _, _ := procQueryInterface.Call(uintptr(id))
	return p
}

// Open loads the driver library and initializes NVAPI. Missing optional
// entry points are not an error; they show up in Caps.
func Open() (*Session, error) {
	if err := procQueryInterface.Find(); err != nil {
		return nil, fmt.Errorf("nvapi: load %s: %w", dllName(), err)
	}

	initialize := query(idInitialize)
	if initialize == 0 {
		return nil, fmt.Errorf("nvapi: NvAPI_Initialize: %w", ErrUnavailable)
	}

	s := &Session{
		unload:          query(idUnload),
		getErrorMessage: query(idGetErrorMessage),
		enumDisplay:     query(idEnumNvidiaDisplayHandle),
		displayName:     query(idGetAssociatedNvidiaDisplayName),
		getDVCInfo:      query(idGetDVCInfo),
		setDVCLevel:     query(idSetDVCLevel),
		getHUEInfo:      query(idGetHUEInfo),
		setHUEAngle:     query(idSetHUEAngle),
	}

	r, _, _ := syscall.SyscallN(initialize)
	if st := Status(int32(r)); st != StatusOK {
		return nil, fmt.Errorf("nvapi: initialize: %w (%s)", st, s.message(st))
	}

	s.Caps = Capabilities{
		GetDVCInfo:  s.getDVCInfo != 0,
		SetDVCLevel: s.setDVCLevel != 0,
		GetHUEInfo:  s.getHUEInfo != 0,
		SetHUEAngle: s.setHUEAngle != 0,
	}
	return s, nil
}

// message asks the driver for a description of st.
func (s *Session) message(st Status) string {
	if s.getErrorMessage == 0 {
		return st.Error()
	}
	var msg shortString
	r, _, _ := syscall.SyscallN(s.getErrorMessage, uintptr(st), uintptr(unsafe.Pointer(&msg)))
	if Status(int32(r)) != StatusOK || msg.String() == "" {
		return st.Error()
	}
	return msg.String()
}

// Close unloads NVAPI.
func (s *Session) Close() error {
	if s.unload == 0 {
		return nil
	}
	r, _, _ := syscall.SyscallN(s.unload)
	if err := Status(int32(r)).err(); err != nil {
		return fmt.Errorf("nvapi: unload: %w", err)
	}
	return nil
}

// Display returns the i-th NVIDIA display. Index 0 is the primary.
func (s *Session) Display(i int) (*Display, error) {
	if s.enumDisplay == 0 {
		return nil, fmt.Errorf("nvapi: enumerate displays: %w", ErrUnavailable)
	}
	var h uintptr
	r, _, _ := syscall.SyscallN(s.enumDisplay, uintptr(i), uintptr(unsafe.Pointer(&h)))
	if err := Status(int32(r)).err(); err != nil {
		return nil, fmt.Errorf("nvapi: display %d: %w", i, err)
	}
	return &Display{s: s, handle: h, index: i, name: displayName(s.associatedName(h), i)}, nil
}

// Displays enumerates every NVIDIA display. It fails only when none is
// found.
func (s *Session) Displays() ([]*Display, error) {
	var ds []*Display
	for i := 0; ; i++ {
		d, err := s.Display(i)
		if err != nil {
			if len(ds) == 0 {
				return nil, err
			}
			return ds, nil
		}
		ds = append(ds, d)
	}
}

func (s *Session) associatedName(h uintptr) string {
	if s.displayName == 0 {
		return ""
	}
	var name shortString
	r, _, _ := syscall.SyscallN(s.displayName, h, uintptr(unsafe.Pointer(&name)))
	if Status(int32(r)) != StatusOK {
		return ""
	}
	return name.String()
}

// Display is an NVIDIA display handle. It is valid until the session is
// closed and should not be kept across toggles.
type Display struct {
	s      *Session
	handle uintptr
	index  int
	name   string
}

// Name is the GDI device name (\\.\DISPLAYn) or a fallback label.
func (d *Display) Name() string { return d.name }

// Index is the enumeration index.
func (d *Display) Index() int { return d.index }

// Vibrance returns the raw digital vibrance range and current level.
func (d *Display) Vibrance() (min, current, max int, err error) {
	if d.s.getDVCInfo == 0 {
		return 0, 0, 0, ErrUnavailable
	}
	info := dvcInfo{version: dvcInfoVer1}
	r, _, _ := syscall.SyscallN(d.s.getDVCInfo, d.handle, 0, uintptr(unsafe.Pointer(&info)))
	if err := Status(int32(r)).err(); err != nil {
		return 0, 0, 0, fmt.Errorf("nvapi: get DVC info: %w", err)
	}
	return int(info.minLevel), int(info.currentLevel), int(info.maxLevel), nil
}

// SetVibrance sets the raw digital vibrance level.
func (d *Display) SetVibrance(level int) error {
	if d.s.setDVCLevel == 0 {
		return ErrUnavailable
	}
	r, _, _ := syscall.SyscallN(d.s.setDVCLevel, d.handle, 0, uintptr(int32(level)))
	if err := Status(int32(r)).err(); err != nil {
		return fmt.Errorf("nvapi: set DVC level %d: %w", level, err)
	}
	return nil
}

// Hue returns the current hue angle in degrees.
func (d *Display) Hue() (int, error) {
	if d.s.getHUEInfo == 0 {
		return 0, ErrUnavailable
	}
	info := hueInfo{version: hueInfoVer1}
	r, _, _ := syscall.SyscallN(d.s.getHUEInfo, d.handle, 0, uintptr(unsafe.Pointer(&info)))
	if err := Status(int32(r)).err(); err != nil {
		return 0, fmt.Errorf("nvapi: get HUE info: %w", err)
	}
	return int(info.currentAngle), nil
}

// SetHue sets the hue angle in degrees.
func (d *Display) SetHue(angle int) error {
	if d.s.setHUEAngle == 0 {
		return ErrUnavailable
	}
	r, _, _ := syscall.SyscallN(d.s.setHUEAngle, d.handle, 0, uintptr(int32(angle)))
	if err := Status(int32(r)).err(); err != nil {
		return fmt.Errorf("nvapi: set HUE angle %d: %w", angle, err)
	}
	return nil
}
