//go:build windows

// Package hotkey provides a thin wrapper around the Windows RegisterHotKey
// API: register global hotkeys and get a callback on keydown from one
// message loop.
package hotkey

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var user32 = windows.NewLazySystemDLL("user32.dll")

var (
	procRegisterHotKey    = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey  = user32.NewProc("UnregisterHotKey")
	procGetMessageW       = user32.NewProc("GetMessageW")
	procPostThreadMessage = user32.NewProc("PostThreadMessageW")
)

// Modifier flags for RegisterHotKey.
const (
	ModAlt      = 0x1
	ModCtrl     = 0x2
	ModShift    = 0x4
	ModWin      = 0x8
	ModNoRepeat = 0x4000
)

const (
	wmHotkey = 0x0312
	wmQuit   = 0x0012
)

// Hotkey is a modifier mask and a virtual-key code.
type Hotkey struct {
	Mod uint32
	Key uint32
}

func (h Hotkey) String() string {
	return fmt.Sprintf("mod=0x%x vk=0x%x", h.Mod, h.Key)
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      [2]int32
}

// Listener runs the message loop for a set of hotkeys.
type Listener struct {
	threadID chan uint32
}

// NewListener returns a Listener that has not started yet.
func NewListener() *Listener {
	return &Listener{threadID: make(chan uint32, 1)}
}

// Run registers each hotkey and calls fn(id) on every keydown, where id is
// the index into hotkeys. It blocks until Stop is called; run it on its own
// goroutine. Registration failures are returned after the loop ends, with
// the remaining hotkeys still active meanwhile.
func (l *Listener) Run(hotkeys []Hotkey, fn func(id int)) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.threadID <- windows.GetCurrentThreadId()

	var firstErr error
	for i, hk := range hotkeys {
		ret, _, err := procRegisterHotKey.Call(0, uintptr(i+1), uintptr(hk.Mod), uintptr(hk.Key))
		if ret == 0 && firstErr == nil {
			firstErr = fmt.Errorf("RegisterHotKey(%s): %w", hk, err)
		}
	}

	var m msg
	for {
		// GetMessageW blocks until a message is available. Returns 0 on WM_QUIT, -1 on error.
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		if m.message == wmHotkey {
			id := int(m.wParam) - 1 // registered with id = index+1
			if id >= 0 && id < len(hotkeys) {
				fn(id)
			}
		}
	}

	for i := range hotkeys {
		procUnregisterHotKey.Call(0, uintptr(i+1))
	}
	return firstErr
}

// Stop ends the message loop started by Run. It waits for Run to start.
func (l *Listener) Stop() {
	id := <-l.threadID
	l.threadID <- id
	procPostThreadMessage.Call(uintptr(id), wmQuit, 0, 0)
}
