//go:build windows

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/alex-vit/nvtoggle/icon"
	"github.com/alex-vit/nvtoggle/internal/config"
	"github.com/alex-vit/nvtoggle/internal/hotkey"
	"github.com/alex-vit/nvtoggle/internal/nvapi"
	"github.com/alex-vit/nvtoggle/internal/toggle"
	"github.com/energye/systray"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	mutexName = "NvToggleMutex"
	vkV       = 0x56
	runKey    = `Software\Microsoft\Windows\CurrentVersion\Run`
)

// trayApp owns the NVAPI session for as long as the tray icon lives.
type trayApp struct {
	log     *zap.SugaredLogger
	session *nvapi.Session
	loader  *config.Loader
	hotkeys *hotkey.Listener
	cancel  context.CancelFunc

	mu  sync.Mutex
	cfg config.Config

	mToggle    *systray.MenuItem
	mReset     *systray.MenuItem
	mAutostart *systray.MenuItem
}

// runTray keeps a single instance in the notification area. Left click
// toggles, right click opens the menu, Ctrl+Alt+V toggles from anywhere.
func runTray(loader *config.Loader, cfg config.Config, log *zap.SugaredLogger) int {
	name, _ := windows.UTF16PtrFromString(mutexName)
	mutex, err := windows.CreateMutex(nil, false, name)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		log.Infow("tray: already running")
		return 0
	}
	if mutex != 0 {
		defer windows.CloseHandle(mutex)
	}

	session, err := nvapi.Open()
	if err != nil {
		log.Errorw("nvapi: initialize failed", "err", err)
		return 1
	}
	defer closeSession(session, log)
	if missing := session.Caps.Missing(); len(missing) > 0 {
		log.Warnw("nvapi: entry points unavailable", "missing", missing)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &trayApp{
		log:     log,
		session: session,
		loader:  loader,
		hotkeys: hotkey.NewListener(),
		cancel:  cancel,
		cfg:     cfg,
	}

	if u, err := newUpdater(log); err != nil {
		log.Warnw("update: disabled", "err", err)
	} else {
		u.cleanOld()
		go u.run(ctx)
	}

	systray.Run(app.onReady, app.onExit)
	return 0
}

func (a *trayApp) onReady() {
	a.refresh()

	mTitle := systray.AddMenuItem(appName+" "+displayVersion(), "")
	mTitle.Disable()
	systray.AddMenuItem("Open log", "Open log file").Click(a.openLog)
	systray.AddSeparator()

	a.mToggle = systray.AddMenuItem("Toggle", "Switch between custom and default colors (Ctrl+Alt+V)")
	a.mToggle.Click(func() { a.toggle(nil) })
	a.mReset = systray.AddMenuItem("Reset to default", "Restore driver and gamma defaults")
	a.mReset.Click(func() {
		reset := toggle.ActionReset
		a.toggle(&reset)
	})
	systray.AddSeparator()

	a.mAutostart = systray.AddMenuItem("Start with Windows", "Launch "+appName+" at login")
	if autostartEnabled(runKey) {
		a.mAutostart.Check()
	}
	a.mAutostart.Click(a.toggleAutostart)
	systray.AddSeparator()
	systray.AddMenuItem("Quit", "Quit "+appName).Click(func() { systray.Quit() })

	systray.SetOnClick(func(systray.IMenu) { a.toggle(nil) })
	systray.SetOnRClick(func(menu systray.IMenu) {
		a.refresh()
		menu.ShowMenu()
	})

	a.loader.Watch(a.reload)

	go func() {
		hk := []hotkey.Hotkey{{Mod: hotkey.ModCtrl | hotkey.ModAlt | hotkey.ModNoRepeat, Key: vkV}}
		if err := a.hotkeys.Run(hk, func(int) { a.toggle(nil) }); err != nil {
			a.log.Warnw("hotkey: registration failed", "err", err)
		}
	}()
}

func (a *trayApp) onExit() {
	a.cancel()
	a.hotkeys.Stop()
	a.log.Infow("tray: exiting")
}

// toggle flips the configured displays, or forces action when non-nil.
func (a *trayApp) toggle(action *toggle.Action) {
	a.mu.Lock()
	defer a.mu.Unlock()

	targets, err := displayTargets(a.session, a.cfg.ToggleAllDisplays)
	if err != nil {
		a.log.Errorw("nvapi: no display", "err", err)
		a.setIcon(toggle.ActionReset)
		return
	}

	tg := toggle.New(a.cfg.Profile, a.log)
	var last toggle.Action
	for _, t := range targets {
		var o toggle.Outcome
		if action != nil {
			o = tg.Force(t, *action)
		} else {
			o = tg.Toggle(t)
		}
		a.log.Infow("tray: toggled", "display", o.Display, "action", o.Decision.Action, "err", o.Err)
		last = o.Decision.Action
	}
	a.setIcon(last)
}

// refresh syncs the icon with the first display's current state, which may
// have been changed by the console mode or another tool.
func (a *trayApp) refresh() {
	a.mu.Lock()
	defer a.mu.Unlock()

	targets, err := displayTargets(a.session, false)
	if err != nil {
		a.log.Debugw("tray: refresh skipped", "err", err)
		a.setIcon(toggle.ActionReset)
		return
	}
	s := toggle.New(a.cfg.Profile, a.log).Inspect(targets[0])
	if s.IsDefault() {
		a.setIcon(toggle.ActionReset)
	} else {
		a.setIcon(toggle.ActionApply)
	}
}

// setIcon shows the profile that action leaves on screen. Callers hold mu.
func (a *trayApp) setIcon(action toggle.Action) {
	p := toggle.For(action, a.cfg.Profile).Profile
	systray.SetIcon(icon.Generate(p.Hue, p.Vibrance))
	if action == toggle.ActionApply {
		systray.SetTooltip(fmt.Sprintf("%s: custom (vibrance %d%%, hue %d)", appName, p.Vibrance, p.Hue))
	} else {
		systray.SetTooltip(appName + ": default")
	}
}

func (a *trayApp) reload(cfg config.Config, err error) {
	if err != nil {
		a.log.Warnw("config: reload failed, keeping previous settings", "path", a.loader.Path(), "err", err)
		return
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.log.Infow("config: reloaded", "path", a.loader.Path(), "profile", cfg.Profile)
	a.refresh()
}

func (a *trayApp) openLog() {
	if logPath == "" {
		return
	}
	if err := exec.Command("rundll32", "url.dll,FileProtocolHandler", logPath).Start(); err != nil {
		a.log.Warnw("tray: open log failed", "err", err)
	}
}

func (a *trayApp) toggleAutostart() {
	on := !a.mAutostart.Checked()
	if err := setAutostart(runKey, on); err != nil {
		a.log.Warnw("autostart: update failed", "enable", on, "err", err)
		return
	}
	if on {
		a.mAutostart.Check()
	} else {
		a.mAutostart.Uncheck()
	}
	a.log.Infow("autostart: updated", "enabled", on)
}

// autostartEnabled reports whether key under HKCU launches this executable.
// An entry left by a copy at another path reads as disabled.
func autostartEnabled(key string) bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	k, err := registry.OpenKey(registry.CURRENT_USER, key, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()
	cmd, _, err := k.GetStringValue(appName)
	return err == nil && cmd == autostartCommand(exe)
}

// setAutostart writes or removes the appName value under key. Removing an
// absent value is not an error.
func setAutostart(key string, on bool) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, key, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if !on {
		if err := k.DeleteValue(appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return err
		}
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	return k.SetStringValue(appName, autostartCommand(exe))
}
