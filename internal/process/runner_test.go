//go:build !windows

package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sqlaction/internal/logging"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func newTestRunner(stdout, stderr *bytes.Buffer, opts ...Option) *ShellRunner {
	opts = append([]Option{WithOutput(stdout, stderr)}, opts...)
	return NewShellRunner(logging.NewNullLogger(), opts...)
}

func TestShellRunner_Success(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestRunner(&stdout, &stderr)

	err := r.Run(context.Background(), `echo "hello world" && echo oops 1>&2`)

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestShellRunner_QuotedArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestRunner(&stdout, &stderr)

	err := r.Run(context.Background(), `printf '%s|' "a b" /TargetConnectionString:"Server=x;Database=y"`)

	require.NoError(t, err)
	assert.Equal(t, "a b|/TargetConnectionString:Server=x;Database=y|", stdout.String())
}

func TestShellRunner_NonZeroExit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestRunner(&stdout, &stderr)

	err := r.Run(context.Background(), "exit 3")

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.ErrorIs(t, err, sqlaction.ErrProcessFailed)
	assert.Equal(t, "process exited with code 3", err.Error())

	var osExit *exec.ExitError
	assert.True(t, errors.As(err, &osExit))
}

func TestShellRunner_CommandNotFound(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestRunner(&stdout, &stderr)

	err := r.Run(context.Background(), "definitely-not-a-real-binary-7c1f")

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 127, exitErr.ExitCode)
}

func TestShellRunner_WorkingDirectory(t *testing.T) {
	var stdout, stderr bytes.Buffer
	dir := t.TempDir()
	r := newTestRunner(&stdout, &stderr, WithDir(dir))

	require.NoError(t, r.Run(context.Background(), "pwd -P"))
	assert.NotEmpty(t, stdout.String())
}

func TestShellRunner_ContextTimeout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := newTestRunner(&stdout, &stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, "exec sleep 5")

	require.Error(t, err)
	assert.ErrorIs(t, err, sqlaction.ErrProcessFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewShellRunner_NilLogger(t *testing.T) {
	assert.Panics(t, func() { NewShellRunner(nil) })
}
