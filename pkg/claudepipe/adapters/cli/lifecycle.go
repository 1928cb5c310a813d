package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Stop requests cooperative termination: an interrupt now, a kill after
// the grace period if the process has not exited. Idempotent, and a no-op
// when nothing is running.
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cmd == nil || a.cmd.Process == nil || a.stopped {
		return nil
	}
	a.stopped = true

	// A stop that races natural exit must be reported as an abort, not
	// as the process error the interrupt provokes.
	a.outcome.resolve(piperrs.NewAbortError(piperrs.ErrCodeQueryAborted, "query stopped", nil))

	proc := a.cmd.Process
	if err := proc.Signal(os.Interrupt); err != nil {
		// Already gone.
		return nil
	}

	go func() {
		time.Sleep(gracePeriod)
		_ = proc.Kill()
	}()

	a.sink.Event("cli stop requested")

	return nil
}

// Wait blocks until the subprocess exits and classifies the outcome. It
// must be called after Stdout has been fully drained; only then can a
// non-zero exit be distinguished from a mid-stream failure.
func (a *Adapter) Wait() error {
	a.mu.Lock()
	cmd := a.cmd
	ctx := a.ctx
	a.mu.Unlock()

	if cmd == nil {
		return nil
	}

	// The stderr pump owns its pipe; it reaches EOF when the process
	// exits and must finish before cmd.Wait closes the pipe under it.
	a.pump.Wait()
	err := cmd.Wait()

	switch {
	case ctx != nil && ctx.Err() != nil:
		a.outcome.resolve(abortError(ctx, ctx.Err()))
	case err == nil:
		a.outcome.resolve(nil)
	default:
		a.outcome.resolve(a.classifyExit(err))
	}

	result := a.outcome.get()
	if result != nil {
		a.sink.Event("cli exited", "error", result.Error())
	} else {
		a.sink.Event("cli exited", "error", "")
	}

	return result
}

// classifyExit maps a cmd.Wait error onto the process error kind.
func (a *Adapter) classifyExit(err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return piperrs.NewConnectionError(piperrs.ErrCodeSpawnFailed, "wait failed", err)
	}

	stderr := a.stderr.String()
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return piperrs.NewProcessError(piperrs.ErrCodeProcessSignaled,
			fmt.Sprintf("process killed by signal %s", status.Signal()),
			err, -1, status.Signal().String(), stderr)
	}

	return piperrs.NewProcessError(piperrs.ErrCodeProcessExited,
		fmt.Sprintf("process exited with code %d", exitErr.ExitCode()),
		err, exitErr.ExitCode(), "", stderr)
}

// tailBuffer retains the last cap bytes of line-oriented output.
type tailBuffer struct {
	mu    sync.Mutex
	lines []string
	size  int
	cap   int
}

func newTailBuffer(capacity int) *tailBuffer {
	return &tailBuffer{cap: capacity}
}

// WriteLine appends a line, evicting the oldest lines beyond capacity.
func (b *tailBuffer) WriteLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append(b.lines, line)
	b.size += len(line) + 1
	for b.size > b.cap && len(b.lines) > 1 {
		b.size -= len(b.lines[0]) + 1
		b.lines = b.lines[1:]
	}
}

// String returns the retained tail joined by newlines.
func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.lines, "\n")
}
