// Package logger builds the zerolog loggers used across the application.
// Library packages receive a zerolog.Logger through options and default to
// zerolog.Nop, so nothing logs unless the caller opts in.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// base is the process-wide logger configured by Init. It stays no-op
// until Init runs, so library use never writes to stderr by accident.
var base = zerolog.Nop()

// Init configures the process-wide base logger. Call once at startup.
func Init(level, format string) {
	base = New(level, format, os.Stderr)
}

// New builds a logger writing to w. Format "console" produces human
// readable output; anything else emits JSON lines.
func New(level, format string, w io.Writer) zerolog.Logger {
	out := w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a configured level string to a zerolog level. Unknown
// or empty values fall back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component returns the base logger scoped to one subsystem.
func Component(name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
