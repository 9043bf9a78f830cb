package sqlaction

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := dispatcher.Execute(ctx, cfg)
//	if errors.Is(err, sqlaction.ErrToolNotFound) {
//	    // SqlPackage is not installed on this runner
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedMode indicates an action configuration variant the dispatcher does not know.
	ErrUnsupportedMode = errors.New("unsupported action mode")

	// ErrToolNotFound indicates the SqlPackage executable could not be located.
	ErrToolNotFound = errors.New("sqlpackage not found")

	// ErrFileAccess indicates an input file could not be read.
	ErrFileAccess = errors.New("file access failed")

	// ErrProcessFailed indicates an external process exited unsuccessfully.
	ErrProcessFailed = errors.New("process failed")

	// ErrExecutionFailed indicates SQL execution failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates the database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// usageErrorPatterns are message fragments cobra produces for command line misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod), errors.Is(err, ErrUnsupportedMode):
		return ExitConfigError
	case errors.Is(err, ErrToolNotFound):
		return ExitToolNotFound
	case errors.Is(err, ErrFileAccess):
		return ExitFileAccessError
	case errors.Is(err, ErrProcessFailed):
		return ExitProcessFailed
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
