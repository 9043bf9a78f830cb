package sqlaction

import "context"

// Dispatcher runs one action configuration to completion.
type Dispatcher interface {
	// Execute selects the strategy for cfg's mode, runs it and returns the first failure.
	Execute(ctx context.Context, cfg ActionConfig) error
}

// ToolLocator discovers the SqlPackage executable on the host.
type ToolLocator interface {
	// SQLPackagePath returns the absolute path of the SqlPackage executable,
	// or an error wrapping ErrToolNotFound.
	SQLPackagePath(ctx context.Context) (string, error)
}

// Arguments is a parsed free-form argument string.
// Keys are normalized flag names (lowercase, without leading dashes or slashes).
// A nil value marks a flag given without a value.
type Arguments map[string]*string

// ArgumentParser extracts named tokens from a free-form argument string.
type ArgumentParser interface {
	// ParseCommandArguments tokenizes argString into named arguments.
	ParseCommandArguments(argString string) (Arguments, error)

	// FindArgument returns the value of the first candidate name present in args.
	// Lookup ignores case and leading dashes or slashes.
	FindArgument(args Arguments, names ...string) (string, bool)
}

// SQLExecutor runs SQL text against a target database.
type SQLExecutor interface {
	ExecuteSQL(ctx context.Context, conn *ConnectionConfig, sqlText string) error
}

// ProcessRunner executes a shell command line.
// It returns nil when the process exits with code 0 and an error otherwise.
type ProcessRunner interface {
	Run(ctx context.Context, command string) error
}

// FileReader reads whole files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}
