package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Connect discovers the executable, builds the argument vector and spawns
// the subprocess. The prompt is delivered on stdin, which is closed once
// written; it is never placed in argv. A context that is already
// cancelled fails fast without spawning anything.
func (a *Adapter) Connect(ctx context.Context, prompt string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return piperrs.NewValidationError(piperrs.ErrCodeQueryConsumed,
			"transport already connected; one transport drives one query", "")
	}

	if err := ctx.Err(); err != nil {
		return abortError(ctx, err)
	}

	cliPath, err := a.findCLI()
	if err != nil {
		return err
	}

	argv, err := BuildCommand(cliPath, a.opts)
	if err != nil {
		return piperrs.NewValidationError(piperrs.ErrCodeInvalidConfig, err.Error(), "mcp")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = BuildEnvironment(a.opts)
	if a.opts.Cwd != nil {
		cmd.Dir = *a.opts.Cwd
	}

	// Cooperative cancellation: context expiry sends an interrupt and
	// the process gets gracePeriod to exit before Wait kills it.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = gracePeriod

	// The prompt goes to stdin; exec closes the pipe at EOF of the
	// reader, which signals end-of-input to the CLI.
	cmd.Stdin = strings.NewReader(prompt)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return piperrs.NewConnectionError(piperrs.ErrCodePipeFailed, "stdout pipe failed", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return piperrs.NewConnectionError(piperrs.ErrCodePipeFailed, "stderr pipe failed", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return piperrs.NewNotFoundError(
				fmt.Sprintf("claude CLI not runnable at %s", cliPath), []string{cliPath})
		}

		return piperrs.NewConnectionError(piperrs.ErrCodeSpawnFailed, "process start failed", err)
	}

	a.ctx = ctx
	a.cmd = cmd
	a.stdout = stdout
	a.started = true

	// Stderr is always drained (the pipe must not fill up) and retained
	// in a bounded tail for error reporting; verbose mode additionally
	// forwards each line to the sink.
	verbose := a.opts.Verbose
	a.pump.Add(1)
	go func() {
		defer a.pump.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			a.stderr.WriteLine(line)
			if verbose {
				a.sink.StderrLine(line)
			}
		}
	}()

	a.sink.Event("cli connected", "path", cliPath, "args", len(argv)-1)

	return nil
}

// abortError classifies a context error as timeout- or cancel-derived.
func abortError(ctx context.Context, cause error) *piperrs.AbortError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return piperrs.NewAbortError(piperrs.ErrCodeQueryTimeout, "query timed out", cause)
	}

	return piperrs.NewAbortError(piperrs.ErrCodeQueryAborted, "query cancelled", cause)
}
