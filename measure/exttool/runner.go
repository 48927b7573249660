// Package exttool runs an external script-based analyzer as a second,
// independent measurement path and parses its free-text output.
package exttool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds one external analyzer run. Expiry forcibly
// terminates the subprocess.
const DefaultTimeout = 20 * time.Second

// Output captures the observable result of one subprocess run.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external tool. Implementations are injected by the
// orchestration layer; the core analysis never depends on one.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecRunner runs subprocesses with a wall-clock timeout. Timeouts and
// non-zero exits are recoverable failures of that run, not fatal.
type ExecRunner struct {
	Timeout time.Duration
}

var _ Runner = ExecRunner{}

// Run executes name with args, capturing stdout and stderr.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if err == nil {
		return out, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("exttool: %s timed out after %s", name, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, fmt.Errorf("exttool: %s exited with code %d", name, out.ExitCode)
	}

	return out, fmt.Errorf("exttool: failed to run %s: %w", name, err)
}
