// Package parse materializes a one-shot message sequence into reusable
// views. The first view call drains the stream exactly once into an
// ordered buffer; every later call, on any view, replays the buffer
// without touching the subprocess again.
package parse

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
)

// ToolExecution pairs a tool invocation with its result.
type ToolExecution struct {
	// ToolName is the invoked tool.
	ToolName string
	// Input is the structured tool input.
	Input map[string]any
	// Result is the tool output content.
	Result string
	// IsError marks a failed execution.
	IsError bool
}

// Response caches one pass over a message stream and derives read-only
// views from the buffered messages. It is owned by, and scoped to, the
// query that produced the stream.
type Response struct {
	ctx    context.Context
	stream ports.MessageStream

	once sync.Once
	msgs []messages.Message
	err  error
}

// NewResponse wraps stream. ctx bounds the single draining pass.
func NewResponse(ctx context.Context, stream ports.MessageStream) *Response {
	return &Response{ctx: ctx, stream: stream}
}

// drain consumes the stream exactly once, guarded by sync.Once.
func (r *Response) drain() error {
	r.once.Do(func() {
		for {
			msg, err := r.stream.Next(r.ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				r.err = err

				return
			}
			r.msgs = append(r.msgs, msg)
		}
	})

	return r.err
}

// Messages returns the buffered message list in arrival order.
func (r *Response) Messages() ([]messages.Message, error) {
	if err := r.drain(); err != nil {
		return nil, err
	}

	return r.msgs, nil
}

// Text concatenates every text block of every assistant message, in
// arrival order, joined by newlines.
func (r *Response) Text() (string, error) {
	if err := r.drain(); err != nil {
		return "", err
	}

	var parts []string
	for _, msg := range r.msgs {
		assistant, ok := msg.(*messages.AssistantMessage)
		if !ok {
			continue
		}
		for _, block := range assistant.Content {
			if text, ok := block.(messages.TextBlock); ok {
				parts = append(parts, text.Text)
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}

// Result returns the last result message, or nil when none was emitted.
func (r *Response) Result() (*messages.ResultMessage, error) {
	if err := r.drain(); err != nil {
		return nil, err
	}

	var last *messages.ResultMessage
	for _, msg := range r.msgs {
		if result, ok := msg.(*messages.ResultMessage); ok {
			last = result
		}
	}

	return last, nil
}

// Usage returns the token and cost counters of the last result message,
// or nil when absent.
func (r *Response) Usage() (*messages.UsageStats, error) {
	result, err := r.Result()
	if err != nil || result == nil {
		return nil, err
	}

	return result.Usage, nil
}

// ToolExecutions pairs every tool_use block with its later tool_result
// by identifier, ordered by tool_use arrival. A tool_use with no matching
// result by sequence end is omitted, never an error.
func (r *Response) ToolExecutions() ([]ToolExecution, error) {
	if err := r.drain(); err != nil {
		return nil, err
	}

	type pending struct {
		order int
		use   messages.ToolUseBlock
	}
	uses := make(map[string]pending)
	results := make(map[string]messages.ToolResultBlock)
	var order []string

	for _, msg := range r.msgs {
		assistant, ok := msg.(*messages.AssistantMessage)
		if !ok {
			continue
		}
		for _, block := range assistant.Content {
			switch b := block.(type) {
			case messages.ToolUseBlock:
				if _, seen := uses[b.ID]; !seen {
					uses[b.ID] = pending{order: len(order), use: b}
					order = append(order, b.ID)
				}
			case messages.ToolResultBlock:
				// Pairing requires the use to have arrived first.
				if _, seen := uses[b.ToolUseID]; seen {
					if _, dup := results[b.ToolUseID]; !dup {
						results[b.ToolUseID] = b
					}
				}
			}
		}
	}

	var execs []ToolExecution
	for _, id := range order {
		result, ok := results[id]
		if !ok {
			continue
		}
		use := uses[id].use
		execs = append(execs, ToolExecution{
			ToolName: use.Name,
			Input:    use.Input,
			Result:   result.Content,
			IsError:  result.IsError,
		})
	}

	return execs, nil
}

// ErrorMessages collects every system error notice plus a synthesized
// entry for each failed tool execution.
func (r *Response) ErrorMessages() ([]string, error) {
	if err := r.drain(); err != nil {
		return nil, err
	}

	var errs []string
	for _, msg := range r.msgs {
		if system, ok := msg.(*messages.SystemMessage); ok {
			if text := system.ErrorText(); text != "" {
				errs = append(errs, text)
			}
		}
	}

	execs, err := r.ToolExecutions()
	if err != nil {
		return nil, err
	}
	for _, exec := range execs {
		if exec.IsError {
			errs = append(errs, fmt.Sprintf("tool %s failed: %s", exec.ToolName, exec.Result))
		}
	}

	return errs, nil
}

// Success reports whether a result message exists and no tool execution
// failed.
func (r *Response) Success() (bool, error) {
	result, err := r.Result()
	if err != nil {
		return false, err
	}
	if result == nil {
		return false, nil
	}

	execs, err := r.ToolExecutions()
	if err != nil {
		return false, err
	}
	for _, exec := range execs {
		if exec.IsError {
			return false, nil
		}
	}

	return true, nil
}
