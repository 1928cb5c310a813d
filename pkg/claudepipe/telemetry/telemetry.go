// Package telemetry provides pluggable diagnostic sinks. The core
// notifies a sink about lifecycle events and forwarded stderr lines; it
// never uses the sink as an error channel, and errors always propagate
// to the caller.
package telemetry

import (
	"log/slog"

	"github.com/google/uuid"
)

// Sink receives diagnostic events from the transport and the facade.
type Sink interface {
	// Event records a lifecycle event with structured attributes
	// (slog-style alternating key/value pairs).
	Event(name string, attrs ...any)

	// StderrLine records one line of subprocess diagnostic output.
	StderrLine(line string)
}

// SlogSink writes events to a slog.Logger, tagging every record with a
// query identifier.
type SlogSink struct {
	log *slog.Logger
}

// NewSlogSink wraps logger in a sink scoped to a fresh query ID. A nil
// logger uses slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogSink{log: logger.With("query_id", uuid.NewString())}
}

// Event implements Sink.
func (s *SlogSink) Event(name string, attrs ...any) {
	s.log.Debug(name, attrs...)
}

// StderrLine implements Sink.
func (s *SlogSink) StderrLine(line string) {
	s.log.Debug("cli stderr", "line", line)
}

// NopSink discards everything.
type NopSink struct{}

// Event implements Sink.
func (NopSink) Event(string, ...any) {}

// StderrLine implements Sink.
func (NopSink) StderrLine(string) {}
