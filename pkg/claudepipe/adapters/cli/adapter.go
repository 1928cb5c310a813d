// Package cli implements the subprocess transport adapter. It owns one
// Claude Code CLI process per query: discovery, argument construction,
// spawning, stdin delivery, stderr forwarding, and exit classification.
package cli

import (
	"context"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/ports"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/telemetry"
)

// gracePeriod is how long a cooperatively interrupted process gets before
// it is killed.
const gracePeriod = 5 * time.Second

// stderrCap bounds how much diagnostic output is retained for error
// reporting.
const stderrCap = 64 * 1024

// Adapter implements ports.Transport using a CLI subprocess.
type Adapter struct {
	opts *options.QueryOptions
	sink telemetry.Sink

	mu      sync.Mutex
	ctx     context.Context
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	stderr  *tailBuffer
	pump    sync.WaitGroup
	started bool
	stopped bool

	outcome outcomeSlot
}

// Verify interface compliance at compile time.
var _ ports.Transport = (*Adapter)(nil)

// NewAdapter creates a transport for one query. A nil sink discards
// diagnostics.
func NewAdapter(opts *options.QueryOptions, sink telemetry.Sink) *Adapter {
	if opts == nil {
		opts = &options.QueryOptions{}
	}
	if sink == nil {
		sink = telemetry.NopSink{}
	}

	return &Adapter{
		opts:   opts,
		sink:   sink,
		stderr: newTailBuffer(stderrCap),
	}
}

// Stdout returns the subprocess output stream. Valid after Connect.
func (a *Adapter) Stdout() io.Reader {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.stdout
}

// outcomeSlot resolves a query's final error exactly once. Both the
// cancellation path and the exit watcher race to resolve it; only the
// first resolution is honored, so an abort that races a natural exit is
// reported as an abort.
type outcomeSlot struct {
	once sync.Once
	err  error
}

func (s *outcomeSlot) resolve(err error) {
	s.once.Do(func() { s.err = err })
}

func (s *outcomeSlot) get() error { return s.err }
