// Package stream turns the subprocess's stdout into typed events: a
// line-framing NDJSON decoder below, a message pipeline above. Both are
// pull-based. The next line is read only after the caller consumed the
// previous record, so a slow consumer backpressures the subprocess
// through the pipe instead of growing buffers here.
package stream

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// defaultMaxLine caps a single stdout line when the caller sets no limit.
const defaultMaxLine = 1024 * 1024 // 1MB

// Decoder reads newline-terminated JSON records. A line is never decoded
// before its terminating newline arrived or the stream ended, so a record
// split across read chunks decodes identically to one delivered whole.
type Decoder struct {
	r       *bufio.Reader
	maxLine int
	done    bool
}

// Verify interface compliance at compile time.
var _ ports.RecordStream = (*Decoder)(nil)

// NewDecoder wraps r. maxLine <= 0 uses the default limit.
func NewDecoder(r io.Reader, maxLine int) *Decoder {
	if maxLine <= 0 {
		maxLine = defaultMaxLine
	}

	return &Decoder{r: bufio.NewReader(r), maxLine: maxLine}
}

// Next returns the next decoded record, io.EOF at end of stream, or a
// decode error for a line that was clearly meant as structured output but
// failed to parse. Blank lines and non-JSON-looking noise are skipped.
func (d *Decoder) Next(ctx context.Context) (messages.OutputRecord, error) {
	if d.done {
		return nil, io.EOF
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := d.r.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			d.done = true

			return nil, readErr
		}

		// readErr == io.EOF may still deliver a final unterminated line.
		record, decErr := d.decodeLine(line)
		if decErr != nil {
			d.done = true

			return nil, decErr
		}
		if record != nil {
			return record, nil
		}

		if readErr == io.EOF {
			d.done = true

			return nil, io.EOF
		}
	}
}

// decodeLine decodes one raw line. It returns (nil, nil) for lines that
// are skipped: blanks, non-JSON noise, and records with unknown tags.
func (d *Decoder) decodeLine(line string) (messages.OutputRecord, error) {
	raw := strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	// Only lines opening like JSON are held to JSON strictness; anything
	// else is incidental diagnostic noise on stdout and is ignored,
	// whatever its length.
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, nil
	}

	if len(raw) > d.maxLine {
		prefix := raw
		if len(prefix) > 128 {
			prefix = prefix[:128]
		}

		return nil, piperrs.NewDecodeError("output line exceeds buffer limit", nil, prefix)
	}

	record, err := messages.DecodeRecord([]byte(trimmed))
	if err != nil {
		return nil, piperrs.NewDecodeError("malformed structured output", err, raw)
	}

	return record, nil
}
