// Package logging builds the zap logger: a console core for the user and a
// file core that keeps the full history.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by ParseLevel.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// fileTimeLayout matches the timestamps of the log file since its first
// version.
const fileTimeLayout = "2006-01-02 15:04:05"

// ParseLevel converts a textual level to a zapcore.Level. Unknown strings
// fall back to warn.
func ParseLevel(s string) zapcore.Level {
	switch s {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a logger writing level and above to console, and everything
// from debug up to file. Either writer may be nil.
func New(level string, console, file io.Writer) *zap.SugaredLogger {
	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, consoleCore(ParseLevel(level), console))
	}
	if file != nil {
		cores = append(cores, fileCore(file))
	}
	if len(cores) == 0 {
		return zap.NewNop().Sugar()
	}
	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

func consoleCore(level zapcore.Level, w io.Writer) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))
}

func fileCore(w io.Writer) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(fileTimeLayout)
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(zapcore.DebugLevel))
}

// OpenFile opens (appending) log.txt in dir, creating dir if needed.
func OpenFile(dir string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, "log.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}
