package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Invoker runs a renderer command to completion.
//
// A non-zero exit code is not an error: Invoke returns it with a nil error.
// err is reserved for commands that could not be run at all or that were
// interrupted, in which case exitCode is -1.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) (exitCode int, err error)
}

// ExecInvoker runs commands as child processes.
type ExecInvoker struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Timeout time.Duration // 0 means no limit
}

// ErrTimeout is returned when a render exceeds ExecInvoker.Timeout.
var ErrTimeout = errors.New("render timed out")

// Invoke starts cmd and waits for it to exit.
func (e *ExecInvoker) Invoke(ctx context.Context, cmd Command) (int, error) {
	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Program, cmd.Args...)
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	if runCtx.Err() != nil {
		return -1, fmt.Errorf("%w after %s", ErrTimeout, e.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		return -1, fmt.Errorf("renderer terminated: %w", err)
	}
	return -1, fmt.Errorf("failed to start renderer %s: %w", cmd.Program, err)
}
