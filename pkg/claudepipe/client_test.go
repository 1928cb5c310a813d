package claudepipe

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/telemetry"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// fakeTransport replays a scripted stdout without spawning anything.
type fakeTransport struct {
	output     string
	connectErr error
	waitErr    error

	mu       sync.Mutex
	prompt   string
	stopped  bool
	waited   bool
	received *options.QueryOptions
}

func (f *fakeTransport) Connect(_ context.Context, prompt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt = prompt

	return f.connectErr
}

func (f *fakeTransport) Stdout() io.Reader { return strings.NewReader(f.output) }

func (f *fakeTransport) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true

	return nil
}

func (f *fakeTransport) Wait() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waited = true

	return f.waitErr
}

func newFakeClient(transport *fakeTransport, opts ...ClientOption) *Client {
	client := NewClient(opts...)
	client.newTransport = func(o *options.QueryOptions, _ telemetry.Sink) ports.Transport {
		transport.mu.Lock()
		transport.received = o
		transport.mu.Unlock()

		return transport
	}

	return client
}

const scriptedConversation = `{"type":"message","data":{"type":"system","subtype":"init","session_id":"s1"}}
{"type":"message","data":{"type":"assistant","content":[{"type":"text","text":"hello there"}],"session_id":"s1"}}
{"type":"message","data":{"type":"result","content":"hello there","usage":{"input_tokens":5,"output_tokens":2},"session_id":"s1"}}
{"type":"end"}
`

func TestQueryStreamsMessages(t *testing.T) {
	transport := &fakeTransport{output: scriptedConversation}
	client := newFakeClient(transport)

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)
	defer func() { _ = query.Close() }()

	var types []messages.MessageType
	for {
		msg, err := query.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, msg.MessageType())
	}

	assert.Equal(t, []messages.MessageType{
		messages.MessageTypeSystem,
		messages.MessageTypeAssistant,
		messages.MessageTypeResult,
	}, types)
	assert.Equal(t, "hi", transport.prompt)
	assert.Equal(t, "s1", query.SessionID())
	assert.True(t, transport.waited, "clean end must reap the process")

	// After EOF the query stays terminated.
	_, err = query.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestQueryTextConvenience(t *testing.T) {
	transport := &fakeTransport{output: scriptedConversation}
	client := newFakeClient(transport)

	text, err := client.QueryText(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestQueryResponseViews(t *testing.T) {
	transport := &fakeTransport{output: scriptedConversation}
	client := newFakeClient(transport)

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)
	defer func() { _ = query.Close() }()

	resp := query.Response()
	assert.Same(t, resp, query.Response())

	usage, err := resp.Usage()
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 7, usage.TotalTokens())

	ok, err := resp.Success()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQueryConnectFailure(t *testing.T) {
	transport := &fakeTransport{
		connectErr: piperrs.NewNotFoundError("claude CLI not found", []string{"$PATH"}),
	}
	client := newFakeClient(transport)

	_, err := client.Query(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.True(t, piperrs.IsNotFound(err))
}

func TestQueryNonZeroExitAfterCleanStream(t *testing.T) {
	transport := &fakeTransport{
		output: `{"type":"message","data":{"type":"user","content":"hi"}}` + "\n",
		waitErr: piperrs.NewProcessError(piperrs.ErrCodeProcessExited,
			"process exited with code 1", nil, 1, "", "boom"),
	}
	client := newFakeClient(transport)

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)

	_, err = query.Next(context.Background())
	require.NoError(t, err)

	_, err = query.Next(context.Background())
	require.Error(t, err)
	assert.True(t, piperrs.IsProcess(err))

	// The failure is sticky.
	_, again := query.Next(context.Background())
	assert.Equal(t, err, again)
}

func TestQueryErrorRecordStopsTransport(t *testing.T) {
	transport := &fakeTransport{
		output: `{"type":"error","error":{"message":"overloaded"}}` + "\n",
	}
	client := newFakeClient(transport)

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)

	_, err = query.Next(context.Background())
	require.Error(t, err)
	assert.True(t, piperrs.IsProtocol(err))
	assert.True(t, transport.stopped)
	assert.True(t, transport.waited, "a failed query must still reap the process")

	// The protocol error stays the outcome even though Wait ran.
	_, again := query.Next(context.Background())
	assert.True(t, piperrs.IsProtocol(again))
}

func TestQueryDecodeErrorReapsTransport(t *testing.T) {
	transport := &fakeTransport{
		output: `{"type":"message","data":` + "\n",
		waitErr: piperrs.NewProcessError(piperrs.ErrCodeProcessExited,
			"process exited with code 1", nil, 1, "", ""),
	}
	client := newFakeClient(transport)

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)

	_, err = query.Next(context.Background())
	require.Error(t, err)
	assert.True(t, piperrs.IsDecode(err))
	assert.True(t, transport.stopped)
	assert.True(t, transport.waited, "a failed query must still reap the process")

	// The exit status from Wait never displaces the decode error.
	_, again := query.Next(context.Background())
	assert.True(t, piperrs.IsDecode(again))
}

func TestQueryDefaultsAndClone(t *testing.T) {
	transport := &fakeTransport{output: scriptedConversation}
	defaults := &options.QueryOptions{AllowedTools: []string{"Read"}}
	client := newFakeClient(transport, WithDefaults(defaults))

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)
	defer func() { _ = query.Close() }()

	require.NotNil(t, transport.received)
	assert.Equal(t, []string{"Read"}, transport.received.AllowedTools)
	assert.NotSame(t, &defaults.AllowedTools[0], &transport.received.AllowedTools[0],
		"options must be deep-copied per query")
}

func TestQueryCloseIdempotent(t *testing.T) {
	transport := &fakeTransport{output: scriptedConversation}
	client := newFakeClient(transport)

	query, err := client.Query(context.Background(), "hi", nil)
	require.NoError(t, err)

	require.NoError(t, query.Close())
	require.NoError(t, query.Close())
	assert.True(t, transport.stopped)

	_, err = query.Next(context.Background())
	require.Error(t, err)
	assert.True(t, piperrs.IsAborted(err))
}
