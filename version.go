package main

import (
	"os"
	"path/filepath"
)

// version is set at build time with -ldflags "-X main.version=1.2.3".
var version = ""

const appName = "NvToggle"

func displayVersion() string {
	if version != "" {
		return version
	}
	return "dev"
}

// configFileName is looked up next to the executable.
const configFileName = "nvtoggle.ini"

// defaultConfigPath returns the settings file next to exe, or in the
// working directory when exe is unknown.
func defaultConfigPath(exe string) string {
	if exe == "" {
		return configFileName
	}
	return filepath.Join(filepath.Dir(exe), configFileName)
}

// dataDir is where the log lives.
func dataDir() string {
	if dir := os.Getenv("LocalAppData"); dir != "" {
		return filepath.Join(dir, appName)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return appName
	}
	return filepath.Join(dir, appName)
}

// autostartCommand is the Run-key value that launches exe into the tray.
func autostartCommand(exe string) string {
	return `"` + exe + `" --tray`
}
