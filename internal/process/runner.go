// Package process runs external command lines through the host shell.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

const waitDelay = 5 * time.Second

// ExitError reports a process that ran but exited with a non-zero code.
// The command line is deliberately not part of the message: it may carry a
// connection string with credentials.
type ExitError struct {
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.ExitCode)
}

// Unwrap exposes ErrProcessFailed and the underlying *exec.ExitError.
func (e *ExitError) Unwrap() []error {
	return []error{sqlaction.ErrProcessFailed, e.Err}
}

// ShellRunner implements sqlaction.ProcessRunner.
// Commands run through "sh -c" (or "cmd.exe /S /C" on Windows) and their
// output is streamed to the configured writers as it is produced.
type ShellRunner struct {
	stdout io.Writer
	stderr io.Writer
	dir    string
	logger sqlaction.Logger
}

// Option configures a ShellRunner.
type Option func(*ShellRunner)

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *ShellRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithDir sets the working directory of launched processes.
func WithDir(dir string) Option {
	return func(r *ShellRunner) {
		r.dir = dir
	}
}

// NewShellRunner creates a runner that inherits the caller's stdout and stderr.
func NewShellRunner(logger sqlaction.Logger, opts ...Option) *ShellRunner {
	if logger == nil {
		panic("logger cannot be nil")
	}
	r := &ShellRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes command and waits for it to finish.
// A non-zero exit yields *ExitError; a process that cannot be started, or is
// killed because ctx ended, yields an error wrapping ErrProcessFailed.
func (r *ShellRunner) Run(ctx context.Context, command string) error {
	cmd := shellCommand(ctx, command)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if r.dir != "" {
		cmd.Dir = r.dir
	}
	// Grandchildren may hold the output pipes open after the shell is killed.
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Round(time.Millisecond)

	if err == nil {
		r.logger.Verbose("Process finished in %s", elapsed)
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: process aborted after %s: %w", sqlaction.ErrProcessFailed, elapsed, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Verbose("Process exited with code %d after %s", exitErr.ExitCode(), elapsed)
		return &ExitError{ExitCode: exitErr.ExitCode(), Err: err}
	}

	return fmt.Errorf("%w: failed to start process: %w", sqlaction.ErrProcessFailed, err)
}
