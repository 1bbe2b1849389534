// Package nvapi calls the NVIDIA driver API through nvapi_QueryInterface,
// including the undocumented digital vibrance and hue entry points that the
// NVIDIA Control Panel uses.
package nvapi

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"
)

// ErrUnavailable is returned by calls whose driver entry point could not be
// resolved.
var ErrUnavailable = errors.New("nvapi: entry point unavailable")

// Function IDs for nvapi_QueryInterface. The DVC/HUE ones are not in the
// public SDK headers.
const (
	idInitialize                     = 0x0150E828
	idUnload                         = 0xD22BDD7E
	idGetErrorMessage                = 0x6C2D048C
	idEnumNvidiaDisplayHandle        = 0x9ABDD40D
	idGetAssociatedNvidiaDisplayName = 0x22A78B05
	idGetDVCInfo                     = 0x4085DE45
	idSetDVCLevel                    = 0x172409B4
	idGetHUEInfo                     = 0x95B64341
	idSetHUEAngle                    = 0xF5A0F22C
)

// Status is an NvAPI_Status return code. Every non-OK status is an error.
type Status int32

const (
	StatusOK                  Status = 0
	StatusError               Status = -1
	StatusLibraryNotFound     Status = -2
	StatusNoImplementation    Status = -3
	StatusAPINotInitialized   Status = -4
	StatusInvalidArgument     Status = -5
	StatusDeviceNotFound      Status = -6
	StatusEndEnumeration      Status = -7
	StatusInvalidHandle       Status = -8
	StatusIncompatibleVersion Status = -9
	StatusHandleInvalidated   Status = -10
	StatusInvalidPointer      Status = -14
	StatusExpectedDisplay     Status = -102
	StatusNotSupported        Status = -104
)

var statusNames = map[Status]string{
	StatusOK:                  "NVAPI_OK",
	StatusError:               "NVAPI_ERROR",
	StatusLibraryNotFound:     "NVAPI_LIBRARY_NOT_FOUND",
	StatusNoImplementation:    "NVAPI_NO_IMPLEMENTATION",
	StatusAPINotInitialized:   "NVAPI_API_NOT_INITIALIZED",
	StatusInvalidArgument:     "NVAPI_INVALID_ARGUMENT",
	StatusDeviceNotFound:      "NVAPI_NVIDIA_DEVICE_NOT_FOUND",
	StatusEndEnumeration:      "NVAPI_END_ENUMERATION",
	StatusInvalidHandle:       "NVAPI_INVALID_HANDLE",
	StatusIncompatibleVersion: "NVAPI_INCOMPATIBLE_STRUCT_VERSION",
	StatusHandleInvalidated:   "NVAPI_HANDLE_INVALIDATED",
	StatusInvalidPointer:      "NVAPI_INVALID_POINTER",
	StatusExpectedDisplay:     "NVAPI_EXPECTED_DISPLAY_HANDLE",
	StatusNotSupported:        "NVAPI_NOT_SUPPORTED",
}

func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("NVAPI status %d", int32(s))
}

// err returns nil for StatusOK and s otherwise.
func (s Status) err() error {
	if s == StatusOK {
		return nil
	}
	return s
}

// shortString is NvAPI_ShortString.
type shortString [64]byte

func (s *shortString) String() string {
	b := s[:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// dvcInfo is NV_GPU_DVC_INFO_V1.
type dvcInfo struct {
	version      uint32
	currentLevel int32
	minLevel     int32
	maxLevel     int32
}

// hueInfo is NV_GPU_HUE_INFO_V1.
type hueInfo struct {
	version      uint32
	currentAngle int32
	defaultAngle int32
}

// makeVersion is the MAKE_NVAPI_VERSION macro: struct size in the low word,
// version in the high word.
func makeVersion(size uintptr, ver uint32) uint32 {
	return uint32(size) | ver<<16
}

var (
	dvcInfoVer1 = makeVersion(unsafe.Sizeof(dvcInfo{}), 1)
	hueInfoVer1 = makeVersion(unsafe.Sizeof(hueInfo{}), 1)
)

// Capabilities records which optional entry points the driver exposes.
// Drivers too old for DVC/HUE control leave the matching fields false.
type Capabilities struct {
	GetDVCInfo  bool
	SetDVCLevel bool
	GetHUEInfo  bool
	SetHUEAngle bool
}

// Missing lists the names of absent entry points.
func (c Capabilities) Missing() []string {
	var m []string
	if !c.GetDVCInfo {
		m = append(m, "GetDVCInfo")
	}
	if !c.SetDVCLevel {
		m = append(m, "SetDVCLevel")
	}
	if !c.GetHUEInfo {
		m = append(m, "GetHUEInfo")
	}
	if !c.SetHUEAngle {
		m = append(m, "SetHUEAngle")
	}
	return m
}

// displayName is the name used when the driver can't report one.
func displayName(reported string, index int) string {
	if reported != "" {
		return reported
	}
	if index == 0 {
		return "Primary Display"
	}
	return fmt.Sprintf("Display %d", index)
}
