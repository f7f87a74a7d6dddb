// Package plog provides axiplan's single shared zerolog configuration.
// Rather than a global log.Logger singleton, New returns a fresh
// zerolog.Logger per caller so tests (and a library embedder) can
// construct their own without fighting process-wide state — the
// device connection is process-lifetime, but individual tests are
// not.
package plog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger's output shape.
type Options struct {
	// Console selects zerolog.ConsoleWriter's human-readable format
	// (for interactive CLI runs) over newline-delimited JSON (for
	// piping to a log collector).
	Console bool
	// Level is the minimum level logged; nil selects Info.
	Level  *zerolog.Level
	Writer io.Writer
}

// New builds a configured zerolog.Logger. A zero Options defaults to
// JSON output at Info level to os.Stderr.
func New(opts Options) zerolog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	var w io.Writer = opts.Writer
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: opts.Writer, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if opts.Level != nil {
		level = *opts.Level
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
