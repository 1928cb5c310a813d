// Package ports defines the interfaces the facade needs from its
// adapters. They are deliberately narrow: the stream interfaces are
// pull-based so that a slow consumer exerts backpressure on the
// subprocess instead of growing buffers.
package ports

import (
	"context"
	"io"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
)

// Transport owns exactly one subprocess for the lifetime of one query.
type Transport interface {
	// Connect locates the executable, spawns it, writes the prompt to
	// its stdin and closes stdin. It fails fast when ctx is already
	// cancelled.
	Connect(ctx context.Context, prompt string) error

	// Stdout returns the subprocess output stream for the decoder.
	Stdout() io.Reader

	// Stop requests cooperative termination, escalating to a kill after
	// a grace period. Idempotent and safe without a live process.
	Stop() error

	// Wait blocks until the subprocess exits, after Stdout has been
	// drained. A non-zero exit or terminating signal is returned as a
	// process error.
	Wait() error
}

// RecordStream yields decoded output records one line at a time. The next
// line is only read once the previous record was delivered.
type RecordStream interface {
	// Next returns the next record, io.EOF at end of stream, or a
	// decode error for malformed structured output.
	Next(ctx context.Context) (messages.OutputRecord, error)
}

// MessageStream yields well-formed messages. Error records terminate the
// stream with a protocol error; an end record or stream close terminates
// it with io.EOF.
type MessageStream interface {
	Next(ctx context.Context) (messages.Message, error)
}
