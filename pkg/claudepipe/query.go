package claudepipe

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/adapters/parse"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/telemetry"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Query is one running subprocess and its message sequence. It is
// single-use and not safe for concurrent Next calls; the response
// materializer is the supported way to share results.
type Query struct {
	ctx       context.Context
	cancel    context.CancelFunc
	transport ports.Transport
	pipeline  ports.MessageStream
	sink      telemetry.Sink

	finished  bool
	finalErr  error
	sessionID string

	responseOnce sync.Once
	response     *parse.Response

	closeOnce sync.Once
}

// Verify interface compliance at compile time.
var _ ports.MessageStream = (*Query)(nil)

// Next returns the next message from the subprocess, blocking until one
// arrives. It returns io.EOF after clean termination, meaning an end
// record or stream close followed by a zero exit. Cancellation and
// timeout surface as aborted errors, never as generic process errors.
func (q *Query) Next(ctx context.Context) (messages.Message, error) {
	if q.finished {
		if q.finalErr != nil {
			return nil, q.finalErr
		}

		return nil, io.EOF
	}

	msg, err := q.pipeline.Next(ctx)
	if err == nil {
		if q.sessionID == "" {
			q.sessionID = msg.GetSessionID()
		}

		return msg, nil
	}

	q.finished = true

	if err == io.EOF {
		// Output fully drained: only now does the exit status count.
		// A non-zero exit after clean output is still an error, but a
		// different one than a mid-stream failure.
		if waitErr := q.transport.Wait(); waitErr != nil {
			q.finalErr = waitErr
			q.cancel()

			return nil, waitErr
		}
		q.cancel()

		return nil, io.EOF
	}

	// Raw context errors from the decoder become aborted errors; the
	// distinction between cancel and timeout is preserved.
	if errors.Is(err, context.Canceled) {
		err = piperrs.NewAbortError(piperrs.ErrCodeQueryAborted, "query cancelled", err)
	} else if errors.Is(err, context.DeadlineExceeded) {
		err = piperrs.NewAbortError(piperrs.ErrCodeQueryTimeout, "query timed out", err)
	}

	q.finalErr = err
	q.cancel()
	_ = q.transport.Stop()
	// Reap the subprocess. The interrupt plus grace period bound this
	// wait, and the error recorded above still wins over the exit status.
	_ = q.transport.Wait()

	return nil, err
}

// SessionID returns the session identifier once the first message
// carrying one has been observed.
func (q *Query) SessionID() string { return q.sessionID }

// Response returns the materializer over this query's message sequence.
// All derived views share one cached pass; calling Response repeatedly
// returns the same instance.
func (q *Query) Response() *parse.Response {
	q.responseOnce.Do(func() {
		q.response = parse.NewResponse(q.ctx, q)
	})

	return q.response
}

// Close stops the subprocess if it is still running and releases the
// query's resources. Idempotent.
func (q *Query) Close() error {
	q.closeOnce.Do(func() {
		_ = q.transport.Stop()
		q.cancel()
		if !q.finished {
			// Reap the process; the interrupt plus grace period bound
			// this wait.
			_ = q.transport.Wait()
			q.finished = true
			if q.finalErr == nil {
				q.finalErr = piperrs.NewAbortError(
					piperrs.ErrCodeQueryAborted, "query closed", nil)
			}
		}
		q.sink.Event("query closed")
	})

	return nil
}
