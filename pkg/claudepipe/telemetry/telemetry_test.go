package telemetry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogSinkTagsQueryID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sink := NewSlogSink(logger)
	sink.Event("cli connected", "path", "/usr/bin/claude")
	sink.StderrLine("warming up")

	out := buf.String()
	assert.Contains(t, out, "cli connected")
	assert.Contains(t, out, "path=/usr/bin/claude")
	assert.Contains(t, out, "query_id=")
	assert.Contains(t, out, "warming up")
}

func TestSlogSinkDistinctQueryIDs(t *testing.T) {
	var first, second bytes.Buffer
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}

	NewSlogSink(slog.New(slog.NewTextHandler(&first, opts))).Event("e")
	NewSlogSink(slog.New(slog.NewTextHandler(&second, opts))).Event("e")

	require.NotEmpty(t, first.String())
	assert.NotEqual(t, first.String(), second.String())
}

func TestNopSink(t *testing.T) {
	var sink Sink = NopSink{}
	sink.Event("ignored", "k", "v")
	sink.StderrLine("ignored")
}
