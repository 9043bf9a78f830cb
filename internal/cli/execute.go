package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vvka-141/sqlaction/internal/action"
	"github.com/vvka-141/sqlaction/internal/args"
	"github.com/vvka-141/sqlaction/internal/db"
	"github.com/vvka-141/sqlaction/internal/files/filesystem"
	"github.com/vvka-141/sqlaction/internal/logging"
	"github.com/vvka-141/sqlaction/internal/process"
	"github.com/vvka-141/sqlaction/internal/toolchain"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// secretMasker is implemented by loggers that can redact values from CI output.
type secretMasker interface {
	Mask(value string)
}

// newDispatcher wires the production collaborators. Tests replace it.
var newDispatcher = func(s *settings, logger sqlaction.Logger, invocationID string) sqlaction.Dispatcher {
	return action.NewDispatcher(
		toolchain.NewLocator(toolchain.WithConfiguredPath(s.sqlpackagePath)),
		args.New(),
		db.NewScriptExecutor(logger,
			db.WithVariables(s.variables),
			db.WithAppName(sqlaction.DefaultAppName+"-"+invocationID[:8]),
		),
		process.NewShellRunner(logger),
		filesystem.NewOSFileSystem(),
		logger,
	)
}

// newLogger is replaced in tests to capture output.
var newLogger = func(verbose bool) sqlaction.Logger {
	return logging.NewConsoleLogger(verbose)
}

// runDeploy resolves settings for mode and dispatches them.
func runDeploy(cmd *cobra.Command, f *deployFlagValues, mode sqlaction.Mode, cmdArgs []string) error {
	s, err := newResolver(cmd, f).resolve(mode, cmdArgs)
	if err != nil {
		return err
	}

	logger := newLogger(s.verbose)
	if m, ok := logger.(secretMasker); ok {
		m.Mask(s.connection.Password)
	}

	cfg, err := s.actionConfig()
	if err != nil {
		return err
	}

	invocationID := uuid.NewString()
	logger.Verbose("Invocation %s: mode=%s target=%s auth=%s timeout=%s",
		invocationID, s.mode, s.connection, s.connection.AuthMethod, s.timeout)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newDispatcher(s, logger, invocationID).Execute(ctx, cfg); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Error("Timed out after %s", s.timeout)
		}
		return fmt.Errorf("%s deployment failed: %w", s.mode, err)
	}
	logger.Info("%s deployment to %s completed", s.mode, s.connection)
	return nil
}
