// Package config loads the key=value settings file.
//
//	# comments start with '#'
//	toggleAllDisplays=false
//	keyPressToExit=true
//	vibrance=80
//	hue=7
//	brightness=0.60
//	contrast=0.65
//	gamma=1.43
//	temperature=0
//
// Keys are case-insensitive. Absent keys take the built-in defaults above.
// Lines that are not key=value pairs, such as an [nvcp] section header, are
// skipped.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sync"

	"github.com/alex-vit/nvtoggle/internal/toggle"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys.
const (
	KeyToggleAllDisplays = "toggleAllDisplays"
	KeyKeyPressToExit    = "keyPressToExit"
	KeyVibrance          = "vibrance"
	KeyHue               = "hue"
	KeyBrightness        = "brightness"
	KeyContrast          = "contrast"
	KeyGamma             = "gamma"
	KeyTemperature       = "temperature"
)

// ErrNotFound is returned (wrapped) by Load when the file doesn't exist.
// The returned Config holds the defaults.
var ErrNotFound = errors.New("config file not found")

// Config is the loaded settings file.
type Config struct {
	ToggleAllDisplays bool
	KeyPressToExit    bool
	Profile           toggle.Profile
}

// Defaults returns the settings used when the file or a key is missing.
func Defaults() Config {
	return Config{
		ToggleAllDisplays: false,
		KeyPressToExit:    true,
		Profile: toggle.Profile{
			Vibrance:    80,
			Hue:         7,
			Brightness:  0.60,
			Contrast:    0.65,
			Gamma:       1.43,
			Temperature: 0,
		},
	}
}

// Loader reads one config file, optionally with flag overrides.
type Loader struct {
	path string
	v    *viper.Viper
	mu   sync.Mutex
}

// NewLoader returns a Loader for path.
func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	d := Defaults()
	v.SetDefault(KeyToggleAllDisplays, d.ToggleAllDisplays)
	v.SetDefault(KeyKeyPressToExit, d.KeyPressToExit)
	v.SetDefault(KeyVibrance, d.Profile.Vibrance)
	v.SetDefault(KeyHue, d.Profile.Hue)
	v.SetDefault(KeyBrightness, d.Profile.Brightness)
	v.SetDefault(KeyContrast, d.Profile.Contrast)
	v.SetDefault(KeyGamma, d.Profile.Gamma)
	v.SetDefault(KeyTemperature, d.Profile.Temperature)

	return &Loader{path: path, v: v}
}

// Path returns the file the Loader reads.
func (l *Loader) Path() string { return l.path }

// BindFlag makes flag override key when it is set on the command line.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config: bind %s: no such flag", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the file. A missing file yields the defaults and an error
// wrapping ErrNotFound. A malformed file yields the last values read (the
// defaults on a first load) and the parse error. Flag overrides always apply.
func (l *Loader) Load() (Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrNotFound, l.path)
		} else {
			err = fmt.Errorf("config: read %s: %w", l.path, err)
		}
		return l.decode(), err
	}
	if err := l.v.ReadConfig(bytes.NewReader(settings(data))); err != nil {
		return l.decode(), fmt.Errorf("config: parse %s: %w", l.path, err)
	}
	return l.decode(), nil
}

var (
	utf8BOM     = []byte("\xEF\xBB\xBF")
	settingLine = regexp.MustCompile(`^\s*[\w.]+\s*=`)
)

// settings keeps the blank, comment and key=value lines of data and drops
// the rest, so one stray line doesn't discard the whole file.
func settings(data []byte) []byte {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	for sc.Scan() {
		line := sc.Bytes()
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 || trimmed[0] == '#' || settingLine.Match(line) {
			out.Write(line)
			out.WriteByte('\n')
		}
	}
	return out.Bytes()
}

// Watch calls fn with the reloaded Config whenever the file changes.
func (l *Loader) Watch(fn func(Config, error)) {
	l.v.OnConfigChange(func(fsnotify.Event) {
		fn(l.Load())
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() Config {
	c := Config{
		ToggleAllDisplays: l.v.GetBool(KeyToggleAllDisplays),
		KeyPressToExit:    l.v.GetBool(KeyKeyPressToExit),
		Profile: toggle.Profile{
			Vibrance:    l.v.GetInt(KeyVibrance),
			Hue:         l.v.GetInt(KeyHue),
			Brightness:  l.v.GetFloat64(KeyBrightness),
			Contrast:    l.v.GetFloat64(KeyContrast),
			Gamma:       l.v.GetFloat64(KeyGamma),
			Temperature: l.v.GetInt(KeyTemperature),
		},
	}
	c.Profile = c.Profile.Clamp()
	return c
}

// Load reads the file at path with no flag overrides.
func Load(path string) (Config, error) {
	return NewLoader(path).Load()
}
