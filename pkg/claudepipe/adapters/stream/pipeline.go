package stream

import (
	"context"
	"io"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Pipeline filters decoded records into the message sequence the caller
// wants: message records unwrap, error records raise, the end sentinel
// (or a bare stream close) terminates cleanly.
type Pipeline struct {
	records ports.RecordStream
	done    bool
}

// Verify interface compliance at compile time.
var _ ports.MessageStream = (*Pipeline)(nil)

// NewPipeline stacks a message filter on a record stream.
func NewPipeline(records ports.RecordStream) *Pipeline {
	return &Pipeline{records: records}
}

// Next returns the next well-formed message. It returns io.EOF on clean
// termination (after an end record no further lines are read) and a
// protocol error when the CLI reported a mid-stream error.
func (p *Pipeline) Next(ctx context.Context) (messages.Message, error) {
	if p.done {
		return nil, io.EOF
	}

	record, err := p.records.Next(ctx)
	if err != nil {
		p.done = true

		return nil, err
	}

	switch r := record.(type) {
	case *messages.MessageRecord:
		return r.Message, nil

	case *messages.ErrorRecord:
		p.done = true

		return nil, piperrs.NewProtocolError(r.Message, r.Code)

	case *messages.EndRecord:
		p.done = true

		return nil, io.EOF

	default:
		p.done = true

		return nil, piperrs.NewProtocolError("unexpected record kind", "")
	}
}
