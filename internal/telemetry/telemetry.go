// Package telemetry provides the structured, leveled logging shared by the
// discriminant, pietrzak, wesolowski and cmd/classvdf packages. It owns the
// one base zerolog logger so the rest of the module never builds its own;
// callers still use zerolog's Logger and Level types.
package telemetry

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.Mutex
	base = zerolog.New(defaultWriter()).With().Timestamp().Logger()
)

func defaultWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
}

// SetLevel adjusts the minimum level the base logger emits. cmd/classvdf
// calls it to wire its --verbose flag.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(level)
}

// SetOutput redirects where log events are written, e.g. to silence
// output or capture it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).With().Timestamp().Logger().Level(base.GetLevel())
}

// Logger returns the package-wide base logger.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// WithConstruction returns a logger tagged with the VDF construction kind
// ("pietrzak" or "wesolowski"), used throughout a single solve or verify
// call so its log lines can be correlated.
func WithConstruction(kind string) zerolog.Logger {
	return Logger().With().Str("construction", kind).Logger()
}

// WithComponent returns a logger tagged with a component name (e.g.
// "discriminant"), for log lines not tied to a specific construction.
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}
