// Package logger builds the zerolog loggers used by the engine and the CLI.
package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const component = "fhirschema"

// New returns a JSON logger writing to w at level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", component).Logger()
}

// Console returns a human-readable logger writing to w at level.
func Console(w io.Writer, level zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}, level)
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// For returns a console logger on w, or a JSON one when json is set.
func For(w io.Writer, level zerolog.Level, json bool) zerolog.Logger {
	if json {
		return New(w, level)
	}
	return Console(w, level)
}

// ParseLevel maps debug, info, warn, error and none to a zerolog level.
// Unknown names yield info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
