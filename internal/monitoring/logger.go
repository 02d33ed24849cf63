// Package monitoring holds the process-wide structured logger.
package monitoring

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the package-level diagnostic logger. It defaults to
// slog.Default() and may be replaced by Init or SetLogger.
var Logger = slog.Default()

// Init installs a text logger on stderr. Debug enables debug records and
// source locations. The standard log package is routed through it as well.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	Logger = slog.New(h)
	slog.SetDefault(Logger)
}

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	Logger = l
}
