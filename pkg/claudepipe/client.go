package claudepipe

import (
	"context"
	"log/slog"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/adapters/cli"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/adapters/stream"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/telemetry"
)

// Client creates queries against the Claude Code CLI. The zero-argument
// constructor produces a usable client; options customize defaults and
// diagnostics.
type Client struct {
	defaults *options.QueryOptions
	logger   *slog.Logger

	// newTransport is swapped in tests to avoid spawning a real CLI.
	newTransport func(opts *options.QueryOptions, sink telemetry.Sink) ports.Transport
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithDefaults sets baseline query options used when Query receives nil.
func WithDefaults(opts *options.QueryOptions) ClientOption {
	return func(c *Client) { c.defaults = opts.Clone() }
}

// WithLogger routes diagnostic events to logger at debug level.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		defaults: &options.QueryOptions{},
		newTransport: func(opts *options.QueryOptions, sink telemetry.Sink) ports.Transport {
			return cli.NewAdapter(opts, sink)
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Query starts one subprocess for the given prompt. A nil opts uses the
// client defaults. The returned Query is single-use: one configuration,
// one subprocess, one message sequence.
func (c *Client) Query(ctx context.Context, prompt string, opts *options.QueryOptions) (*Query, error) {
	if opts == nil {
		opts = c.defaults
	}
	opts = opts.Clone()

	var sink telemetry.Sink = telemetry.NopSink{}
	if c.logger != nil {
		sink = telemetry.NewSlogSink(c.logger)
	}

	// A timeout is a derived cancellation: expiry walks the same
	// cooperative-then-forceful termination path.
	cancel := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	transport := c.newTransport(opts, sink)
	if err := transport.Connect(ctx, prompt); err != nil {
		cancel()

		return nil, err
	}

	decoder := stream.NewDecoder(transport.Stdout(), opts.MaxBufferSize)

	return &Query{
		ctx:       ctx,
		cancel:    cancel,
		transport: transport,
		pipeline:  stream.NewPipeline(decoder),
		sink:      sink,
	}, nil
}

// QueryText runs a query to completion and returns the text view of the
// response.
func (c *Client) QueryText(ctx context.Context, prompt string, opts *options.QueryOptions) (string, error) {
	query, err := c.Query(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	defer func() { _ = query.Close() }()

	return query.Response().Text()
}
