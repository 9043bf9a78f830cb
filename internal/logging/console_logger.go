package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ConsoleLogger writes log messages to stderr.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	format  Format
	out     io.Writer
	mu      sync.Mutex
}

// Option configures a ConsoleLogger.
type Option func(*ConsoleLogger)

// WithWriter sends output to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(l *ConsoleLogger) {
		l.out = w
	}
}

// WithFormat overrides format detection.
func WithFormat(f Format) Option {
	return func(l *ConsoleLogger) {
		l.format = f
	}
}

// NewConsoleLogger creates a new ConsoleLogger.
// If verbose is true, Verbose() calls will produce output.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool, opts ...Option) *ConsoleLogger {
	l := &ConsoleLogger{
		verbose: verbose,
		format:  DetectFormat(),
		out:     os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	msg := render(format, args)
	switch l.format {
	case FormatGitHub:
		l.write("::debug::" + escapeWorkflowData(msg))
	case FormatStyled:
		l.write(verboseStyle.Render("[VERBOSE] " + msg))
	default:
		l.write("[VERBOSE] " + msg)
	}
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write(render(format, args))
}

// Warn logs a warning.
func (l *ConsoleLogger) Warn(format string, args ...interface{}) {
	msg := render(format, args)
	switch l.format {
	case FormatGitHub:
		l.write("::warning::" + escapeWorkflowData(msg))
	case FormatStyled:
		l.write(warnStyle.Render("[WARN]") + " " + msg)
	default:
		l.write("[WARN] " + msg)
	}
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	msg := render(format, args)
	switch l.format {
	case FormatGitHub:
		l.write("::error::" + escapeWorkflowData(msg))
	case FormatStyled:
		l.write(errorStyle.Render("[ERROR]") + " " + msg)
	default:
		l.write("[ERROR] " + msg)
	}
}

// Mask asks the GitHub Actions runner to redact value from all later output.
// It is a no-op in other formats and for empty values.
func (l *ConsoleLogger) Mask(value string) {
	if l.format != FormatGitHub || value == "" {
		return
	}
	l.write("::add-mask::" + escapeWorkflowData(value))
}

func (l *ConsoleLogger) write(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, line+"\n")
}

func render(format string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// escapeWorkflowData encodes the characters GitHub Actions treats specially
// in workflow command data.
func escapeWorkflowData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
