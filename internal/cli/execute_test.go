package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sqlaction/internal/logging"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

type fakeDispatcher struct {
	cfg         sqlaction.ActionConfig
	hasDeadline bool
	err         error
}

func (d *fakeDispatcher) Execute(ctx context.Context, cfg sqlaction.ActionConfig) error {
	d.cfg = cfg
	_, d.hasDeadline = ctx.Deadline()
	return d.err
}

// stubCollaborators swaps the dispatcher and logger factories for the test.
func stubCollaborators(t *testing.T, d *fakeDispatcher) *bytes.Buffer {
	t.Helper()
	origDispatcher, origLogger := newDispatcher, newLogger
	t.Cleanup(func() { newDispatcher, newLogger = origDispatcher, origLogger })

	var buf bytes.Buffer
	newLogger = func(verbose bool) sqlaction.Logger {
		return logging.NewConsoleLogger(verbose, logging.WithWriter(&buf), logging.WithFormat(logging.FormatGitHub))
	}
	newDispatcher = func(s *settings, logger sqlaction.Logger, invocationID string) sqlaction.Dispatcher {
		return d
	}
	return &buf
}

func clearActionInputs(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"INPUT_PATH", "INPUT_CONNECTION-STRING", "INPUT_CONNECTION_STRING", "INPUT_ACTION",
		"INPUT_ARGUMENTS", "INPUT_BUILD-ARGUMENTS", "INPUT_BUILD_ARGUMENTS", "RUNNER_DEBUG",
	} {
		t.Setenv(name, "")
	}
}

func TestRunDeploy(t *testing.T) {
	clearActionInputs(t)
	t.Setenv(EnvConnectionString, testConnection)

	t.Run("dispatches inferred mode", func(t *testing.T) {
		d := &fakeDispatcher{}
		stubCollaborators(t, d)
		f := &deployFlagValues{}
		cmd := newTestCommand(t, f, "--action", "Script", "--arguments", "/p:BlockOnPossibleDataLoss=false")

		require.NoError(t, runDeploy(cmd, f, "", []string{"Db.dacpac"}))

		cfg, ok := d.cfg.(sqlaction.PackagePublishConfig)
		require.True(t, ok, "expected PackagePublishConfig, got %T", d.cfg)
		assert.Equal(t, "Db.dacpac", cfg.PackagePath)
		assert.Equal(t, sqlaction.PublishActionScript, cfg.Action)
		assert.Equal(t, "/p:BlockOnPossibleDataLoss=false", cfg.ExtraArguments)
		assert.Equal(t, "flagdb", cfg.Connection.Database)
		assert.True(t, d.hasDeadline)
	})

	t.Run("masks the password", func(t *testing.T) {
		d := &fakeDispatcher{}
		buf := stubCollaborators(t, d)
		f := &deployFlagValues{}
		cmd := newTestCommand(t, f)

		require.NoError(t, runDeploy(cmd, f, sqlaction.ModeScriptExecute, []string{"seed.sql"}))
		assert.Contains(t, buf.String(), "::add-mask::s3cret")
		assert.Contains(t, buf.String(), "completed")
	})

	t.Run("wraps dispatcher failure", func(t *testing.T) {
		d := &fakeDispatcher{err: errors.New("boom")}
		stubCollaborators(t, d)
		f := &deployFlagValues{}
		cmd := newTestCommand(t, f)

		err := runDeploy(cmd, f, sqlaction.ModeBuildPublish, []string{"Db.sqlproj"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlproj deployment failed: boom")
	})

	t.Run("keeps the error sentinel", func(t *testing.T) {
		d := &fakeDispatcher{err: sqlaction.ErrToolNotFound}
		stubCollaborators(t, d)
		f := &deployFlagValues{}
		cmd := newTestCommand(t, f)

		err := runDeploy(cmd, f, "", []string{"Db.dacpac"})
		assert.ErrorIs(t, err, sqlaction.ErrToolNotFound)
		assert.Equal(t, sqlaction.ExitToolNotFound, sqlaction.ExitCodeForError(err))
	})

	t.Run("settings errors skip dispatch", func(t *testing.T) {
		d := &fakeDispatcher{}
		stubCollaborators(t, d)
		f := &deployFlagValues{}
		cmd := newTestCommand(t, f)

		err := runDeploy(cmd, f, "", []string{"Db.txt"})
		assert.ErrorIs(t, err, sqlaction.ErrInvalidConfig)
		assert.Nil(t, d.cfg)
	})

	t.Run("honors explicit timeout", func(t *testing.T) {
		var remaining time.Duration
		stubCollaborators(t, &fakeDispatcher{})
		newDispatcher = func(s *settings, logger sqlaction.Logger, invocationID string) sqlaction.Dispatcher {
			return dispatchFunc(func(ctx context.Context, cfg sqlaction.ActionConfig) error {
				deadline, _ := ctx.Deadline()
				remaining = time.Until(deadline)
				return nil
			})
		}
		f := &deployFlagValues{}
		cmd := newTestCommand(t, f, "--timeout", "2s")

		require.NoError(t, runDeploy(cmd, f, "", []string{"seed.sql"}))
		assert.LessOrEqual(t, remaining, 2*time.Second)
		assert.Greater(t, remaining, time.Duration(0))
	})
}

type dispatchFunc func(ctx context.Context, cfg sqlaction.ActionConfig) error

func (f dispatchFunc) Execute(ctx context.Context, cfg sqlaction.ActionConfig) error {
	return f(ctx, cfg)
}

func TestNewDispatcherWiring(t *testing.T) {
	s := &settings{sqlpackagePath: "/opt/sqlpackage/sqlpackage", variables: map[string]string{"A": "1"}}
	d := newDispatcher(s, logging.NewNullLogger(), "0123456789abcdef")
	assert.NotNil(t, d)
}
