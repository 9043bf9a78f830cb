package action

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/sqlaction/internal/checksum"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// Argument names looked up in the build arguments.
var (
	outputDirArgNames     = []string{"o", "output", "p:OutputPath"}
	outputNameArgNames    = []string{"p:TargetName"}
	configurationArgNames = []string{"c", "configuration", "p:Configuration"}
)

// FileAccessError reports a script file that could not be read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("Cannot read contents of file %s due to error '%s'.", e.Path, e.Err.Error())
}

// Unwrap exposes both the sentinel and the underlying I/O error.
func (e *FileAccessError) Unwrap() []error {
	return []error{sqlaction.ErrFileAccess, e.Err}
}

// ActionDispatcher implements sqlaction.Dispatcher.
// It keeps no per-invocation state, so one instance may serve concurrent calls
// as long as its collaborators allow it.
type ActionDispatcher struct {
	locator  sqlaction.ToolLocator
	args     sqlaction.ArgumentParser
	executor sqlaction.SQLExecutor
	runner   sqlaction.ProcessRunner
	files    sqlaction.FileReader
	logger   sqlaction.Logger
	checksum checksum.Calculator
}

// NewDispatcher creates an ActionDispatcher with all collaborators injected.
// Panics on nil dependencies: these are wiring mistakes, not runtime conditions.
func NewDispatcher(
	locator sqlaction.ToolLocator,
	args sqlaction.ArgumentParser,
	executor sqlaction.SQLExecutor,
	runner sqlaction.ProcessRunner,
	files sqlaction.FileReader,
	logger sqlaction.Logger,
) *ActionDispatcher {
	if locator == nil {
		panic("locator cannot be nil")
	}
	if args == nil {
		panic("argument parser cannot be nil")
	}
	if executor == nil {
		panic("executor cannot be nil")
	}
	if runner == nil {
		panic("runner cannot be nil")
	}
	if files == nil {
		panic("file reader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &ActionDispatcher{
		locator:  locator,
		args:     args,
		executor: executor,
		runner:   runner,
		files:    files,
		logger:   logger,
		checksum: checksum.New(),
	}
}

// Execute runs the strategy selected by cfg's variant.
func (d *ActionDispatcher) Execute(ctx context.Context, cfg sqlaction.ActionConfig) error {
	switch c := cfg.(type) {
	case sqlaction.PackagePublishConfig:
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return d.publishPackage(ctx, c)
	case sqlaction.ScriptExecuteConfig:
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return d.executeScript(ctx, c)
	case sqlaction.BuildPublishConfig:
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return d.buildAndPublish(ctx, c)
	default:
		return fmt.Errorf("%w: %T", sqlaction.ErrUnsupportedMode, cfg)
	}
}

func (d *ActionDispatcher) publishPackage(ctx context.Context, c sqlaction.PackagePublishConfig) error {
	toolPath, err := d.locator.SQLPackagePath(ctx)
	if err != nil {
		return err
	}
	d.logger.Verbose("Using SqlPackage at %s", toolPath)

	command := FormatSQLPackageCommand(toolPath, c.Action, c.Connection.ConnectionString(), c.PackagePath, c.ExtraArguments)
	d.logger.Verbose("Command: %s",
		FormatSQLPackageCommand(toolPath, c.Action, maskedConnectionString(c.Connection), c.PackagePath, c.ExtraArguments))

	d.logger.Info("Publishing %s to %s", c.PackagePath, c.Connection)
	if err := d.runner.Run(ctx, command); err != nil {
		return fmt.Errorf("sqlpackage %s failed: %w", actionLabel(c.Action), err)
	}

	d.logger.Info("✓ SqlPackage %s completed successfully", actionLabel(c.Action))
	return nil
}

func (d *ActionDispatcher) executeScript(ctx context.Context, c sqlaction.ScriptExecuteConfig) error {
	content, err := d.files.ReadFile(c.ScriptPath)
	if err != nil {
		return &FileAccessError{Path: c.ScriptPath, Err: err}
	}
	d.logger.Verbose("Read %d bytes from %s (sha256 %s, normalized %s)", len(content), c.ScriptPath,
		d.checksum.CalculateRaw(content), d.checksum.CalculateNormalized(content))

	d.logger.Info("Executing %s on %s", c.ScriptPath, c.Connection)
	if err := d.executor.ExecuteSQL(ctx, c.Connection, string(content)); err != nil {
		return err
	}

	d.logger.Info("✓ Script executed successfully")
	return nil
}

func (d *ActionDispatcher) buildAndPublish(ctx context.Context, c sqlaction.BuildPublishConfig) error {
	parsed, err := d.args.ParseCommandArguments(c.BuildArguments)
	if err != nil {
		return fmt.Errorf("failed to parse build arguments: %w", err)
	}

	outputDir := d.resolveOutputDir(parsed, c.ProjectPath)
	outputName := d.resolveOutputName(parsed, c.ProjectPath)

	d.logger.Info("Building %s", c.ProjectPath)
	if err := d.runner.Run(ctx, FormatBuildCommand(c.ProjectPath, c.BuildArguments)); err != nil {
		return fmt.Errorf("dotnet build failed: %w", err)
	}
	d.logger.Info("✓ Build completed successfully")

	dacpacPath := filepath.Join(outputDir, outputName+sqlaction.DacpacExtension)
	d.logger.Verbose("Build artifact: %s", dacpacPath)

	return d.publishPackage(ctx, sqlaction.PackagePublishConfig{
		Connection:  c.Connection,
		PackagePath: dacpacPath,
	})
}

// resolveOutputDir returns the -o/--output directory, or the project's
// bin/<Configuration> folder when none was given.
func (d *ActionDispatcher) resolveOutputDir(parsed sqlaction.Arguments, projectPath string) string {
	if dir, ok := d.args.FindArgument(parsed, outputDirArgNames...); ok && dir != "" {
		return dir
	}

	configuration := sqlaction.DefaultBuildConfiguration
	if c, ok := d.args.FindArgument(parsed, configurationArgNames...); ok && c != "" {
		configuration = c
	}
	return filepath.Join(filepath.Dir(projectPath), "bin", configuration)
}

// resolveOutputName returns the TargetName build property, or the project
// file name without directory and extension.
func (d *ActionDispatcher) resolveOutputName(parsed sqlaction.Arguments, projectPath string) string {
	if name, ok := d.args.FindArgument(parsed, outputNameArgNames...); ok && name != "" {
		return name
	}
	base := filepath.Base(projectPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func maskedConnectionString(conn *sqlaction.ConnectionConfig) string {
	if conn.MaskedConnectionString != "" {
		return conn.MaskedConnectionString
	}
	return "***"
}

func actionLabel(a sqlaction.PublishAction) string {
	if a == sqlaction.PublishActionNone {
		return string(sqlaction.PublishActionPublish)
	}
	return string(a)
}
