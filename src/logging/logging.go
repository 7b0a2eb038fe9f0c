// Package logging builds the process logger. Output always goes to stderr
// because stdout carries the MCP stdio stream.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel applies when logging is enabled without an explicit level.
const DefaultLevel = "warn"

// Options selects verbosity. Logging stays off unless Debug is set or
// Verbose is positive.
type Options struct {
	Level   string
	Debug   bool
	Verbose int
}

// Level resolves the effective zerolog level. Debug and Verbose only switch
// logging on; the threshold always comes from Level.
func Level(opts Options) (zerolog.Level, error) {
	if !opts.Debug && opts.Verbose <= 0 {
		return zerolog.Disabled, nil
	}

	name := strings.TrimSpace(opts.Level)
	if name == "" {
		name = DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	return level, nil
}

// New returns a logger writing human readable lines to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Printf adapts logger to the printf style hook used by the transports.
func Printf(logger zerolog.Logger, level zerolog.Level) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		logger.WithLevel(level).Msgf(format, args...)
	}
}
