// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// EnvLevel is the environment variable consulted for the log level.
const EnvLevel = "ANNOTATE_EDIT_LOG"

// New returns a logger writing structured events to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Console returns a human-readable logger on stderr. The level comes from
// ANNOTATE_EDIT_LOG when set, otherwise from the verbose flag.
func Console(verbose bool) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stderr}, Level(verbose))
}

// Level resolves the log level from the environment, falling back to the
// verbose flag.
func Level(verbose bool) zerolog.Level {
	switch os.Getenv(EnvLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		if verbose {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
}
