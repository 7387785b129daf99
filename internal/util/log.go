// Package util holds process plumbing shared by the binaries.
package util

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON logger on stdout, or a console logger on stderr when pretty is set.
func NewLogger(level string, pretty bool) zerolog.Logger {
	if pretty {
		return NewLoggerTo(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, level)
	}
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo writes timestamped entries to w, falling back to info for unknown levels.
func NewLoggerTo(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
