package sqlaction

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Action completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or connection string
	ExitConnectionError = 11 // Failed to connect to the server
	ExitExecutionFailed = 13 // SQL script execution failed
	ExitToolNotFound    = 15 // SqlPackage could not be located
	ExitFileAccessError = 16 // Input file could not be read
	ExitProcessFailed   = 17 // External process exited with a non-zero code
)

const (
	// DefaultSQLServerPort is the TCP port used when the connection string names none.
	DefaultSQLServerPort = 1433

	// DefaultBuildConfiguration is the dotnet build configuration assumed
	// when the build arguments do not select one.
	DefaultBuildConfiguration = "Debug"

	// DacpacExtension is the file extension of a compiled database package.
	DacpacExtension = ".dacpac"

	// DefaultTimeout bounds a whole invocation, including external processes.
	DefaultTimeout = 30 * time.Minute

	// DefaultAppName is reported to SQL Server as the client application name.
	DefaultAppName = "sqlaction"

	// MaxErrorPreviewLength is the maximum number of characters shown
	// in error messages when previewing a failed SQL batch.
	MaxErrorPreviewLength = 200
)

// Retry configuration for opening SQL connections.
const (
	DefaultRetryMaxAttempts  = 3
	DefaultRetryInitialDelay = 500 * time.Millisecond
	DefaultRetryMaxDelay     = 10 * time.Second
)
