// Licensed under the MIT license which can be found in the LICENSE file.
package util

import (
	"log"
	"os"
)

// Logger is the logging interface used throughout the knxnet, cemi and
// connection-manager layers. It is deliberately narrow so that callers can
// adapt anything from the standard library logger to a structured sink
// (see StructuredLogger) without this package depending on either.
type Logger interface {
	Printf(format string, args ...any)
}

// Sink is the process-wide default Logger. It starts out silent; set it
// from an application's main package to observe dropped/malformed frames
// and connection lifecycle events.
var Sink Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// StdLogger wraps the standard library's log.Logger as a Logger.
func StdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

type stdLogger struct{ l *log.Logger }

func (s stdLogger) Printf(format string, args ...any) { s.l.Printf(format, args...) }

// DefaultStdLogger is a convenience StdLogger writing to stderr, prefixed
// with the package name, suitable as a drop-in Sink during development.
func DefaultStdLogger() Logger {
	return StdLogger(log.New(os.Stderr, "knx: ", log.LstdFlags))
}

// Log writes a formatted message to Sink, tagging it with the dynamic type
// of owner so log lines can be traced back to the structure that produced
// them.
func Log(owner any, format string, args ...any) {
	Sink.Printf("%T: "+format, append([]any{owner}, args...)...)
}

// StructuredLogger adapts a log/slog-shaped interface (Debug/Info/Warn/Error
// with args ...any) onto Logger, so callers already standardized on that
// shape don't need a second logging dependency for the connection-manager
// layer.
type StructuredLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// FromStructured returns a Logger that forwards every message to sl.Info.
// Severity is collapsed because the codec/connection layers only ever emit
// a single severity of diagnostic message (dropped/malformed frames and
// lifecycle transitions), never warnings or errors of their own.
func FromStructured(sl StructuredLogger) Logger {
	return structuredAdapter{sl}
}

type structuredAdapter struct{ sl StructuredLogger }

func (a structuredAdapter) Printf(format string, args ...any) {
	a.sl.Info(format, args...)
}
