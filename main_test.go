package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigPath(t *testing.T) {
	exe := filepath.Join("C:", "Tools", "nvtoggle.exe")
	tests := []struct {
		exe, want string
	}{
		{exe, filepath.Join("C:", "Tools", "nvtoggle.ini")},
		{"", "nvtoggle.ini"},
	}

	for _, tt := range tests {
		got := defaultConfigPath(tt.exe)
		if got != tt.want {
			t.Errorf("defaultConfigPath(%q) = %q, want %q", tt.exe, got, tt.want)
		}
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("LocalAppData", filepath.Join(os.TempDir(), "local"))
	got := dataDir()
	want := filepath.Join(os.TempDir(), "local", "NvToggle")
	if got != want {
		t.Errorf("dataDir() = %q, want %q", got, want)
	}
}

func TestDisplayVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	version = ""
	if got := displayVersion(); got != "dev" {
		t.Errorf("displayVersion() = %q, want %q", got, "dev")
	}
	version = "1.4.0"
	if got := displayVersion(); got != "1.4.0" {
		t.Errorf("displayVersion() = %q, want %q", got, "1.4.0")
	}
}

func TestAutostartCommand(t *testing.T) {
	got := autostartCommand(`C:\Program Files\NvToggle\nvtoggle.exe`)
	want := `"C:\Program Files\NvToggle\nvtoggle.exe" --tray`
	if got != want {
		t.Errorf("autostartCommand() = %q, want %q", got, want)
	}
}

func TestWaitForKeyNotTerminal(t *testing.T) {
	in, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	var out strings.Builder
	waitForKey(in, &out)
	if out.Len() != 0 {
		t.Errorf("waitForKey wrote %q for a non-terminal input, want nothing", out.String())
	}
}
