//go:build windows

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alex-vit/nvtoggle/internal/config"
	"github.com/alex-vit/nvtoggle/internal/logging"
	"github.com/alex-vit/nvtoggle/internal/nvapi"
	"github.com/alex-vit/nvtoggle/internal/toggle"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var logPath string

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	exe, _ := os.Executable()

	flags := pflag.NewFlagSet("nvtoggle", pflag.ContinueOnError)
	cfgPath := flags.StringP("config", "c", defaultConfigPath(exe), "settings file")
	flags.BoolP("all", "a", false, "toggle every NVIDIA display (overrides toggleAllDisplays)")
	noWait := flags.Bool("no-wait", false, "exit without waiting for a key press")
	verbose := flags.BoolP("verbose", "v", false, "log debug output to the console")
	tray := flags.Bool("tray", false, "stay in the notification area and toggle from there")
	showVersion := flags.Bool("version", false, "print the version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Println(appName, displayVersion())
		return 0
	}

	log, closeLog := newLogger(*verbose)
	defer closeLog()
	log.Infow("starting", "app", appName, "version", displayVersion(), "tray", *tray)

	loader := config.NewLoader(*cfgPath)
	if err := loader.BindFlag(config.KeyToggleAllDisplays, flags.Lookup("all")); err != nil {
		log.Warnw("config: bind flag failed", "err", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Warnw("config: using defaults", "path", *cfgPath, "err", err)
		if errors.Is(err, config.ErrNotFound) {
			fmt.Printf("ERROR: Could not open config file: %s\n", *cfgPath)
		} else {
			fmt.Printf("ERROR: %v\n", err)
		}
		fmt.Println("Using default configuration values.")
	}
	if *noWait {
		cfg.KeyPressToExit = false
	}

	if *tray {
		return runTray(loader, cfg, log)
	}

	code := toggleOnce(cfg, log, os.Stdout)
	if cfg.KeyPressToExit {
		waitForKey(os.Stdin, os.Stdout)
	}
	return code
}

// newLogger logs warnings (everything with verbose) to stderr and
// everything to the log file.
func newLogger(verbose bool) (*zap.SugaredLogger, func()) {
	level := logging.WarnLevel
	if verbose {
		level = logging.DebugLevel
	}

	var file io.Writer
	f, path, err := logging.OpenFile(dataDir())
	if err == nil {
		file, logPath = f, path
	}
	log := logging.New(level, os.Stderr, file)
	if err != nil {
		log.Warnw("log: file unavailable", "err", err)
	}

	return log, func() {
		_ = log.Sync()
		if f != nil {
			_ = f.Close()
		}
	}
}

// toggleOnce runs one toggle over the configured displays and returns the
// process exit code.
func toggleOnce(cfg config.Config, log *zap.SugaredLogger, out io.Writer) int {
	session, err := nvapi.Open()
	if err != nil {
		log.Errorw("nvapi: initialize failed", "err", err)
		fmt.Fprintf(out, "ERROR: Unable to initialize NVAPI: %v\n", err)
		return 1
	}
	defer closeSession(session, log)
	warnMissing(session.Caps, log, out)

	targets, err := displayTargets(session, cfg.ToggleAllDisplays)
	if err != nil {
		log.Errorw("nvapi: no display", "err", err)
		fmt.Fprintln(out, "ERROR: No NVIDIA display found")
		return 1
	}

	if cfg.ToggleAllDisplays {
		fmt.Fprintf(out, "Toggling all displays...\n\n")
	} else {
		fmt.Fprintf(out, "Toggling primary display...\n\n")
	}

	for _, o := range toggle.New(cfg.Profile, log).ToggleAll(targets) {
		toggle.Report(out, o)
		fmt.Fprintln(out)
	}
	return 0
}

func closeSession(s *nvapi.Session, log *zap.SugaredLogger) {
	if err := s.Close(); err != nil {
		log.Warnw("nvapi: unload failed", "err", err)
	}
}

// warnMissing reports absent DVC/HUE entry points once per session.
func warnMissing(caps nvapi.Capabilities, log *zap.SugaredLogger, out io.Writer) {
	missing := caps.Missing()
	if len(missing) == 0 {
		return
	}
	log.Warnw("nvapi: entry points unavailable", "missing", missing)
	fmt.Fprintln(out, "WARNING: DVC/HUE control may not work")
}
