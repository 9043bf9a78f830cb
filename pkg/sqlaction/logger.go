package sqlaction

// Logger receives progress from the dispatcher and its collaborators.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Verbose is shown only with --verbose or RUNNER_DEBUG=1.
	Verbose(format string, args ...interface{})

	Info(format string, args ...interface{})

	// Warn reports a condition that does not fail the run.
	Warn(format string, args ...interface{})

	Error(format string, args ...interface{})
}
