// Package logging provides concrete implementations of the sqlaction.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr with thread-safe output
//   - NullLogger: Discards all messages (useful for testing)
//
// ConsoleLogger picks one of three output formats:
//   - FormatPlain: "[VERBOSE] ", "[WARN] " and "[ERROR] " prefixes
//   - FormatGitHub: GitHub Actions workflow commands (::debug::, ::warning::, ::error::)
//   - FormatStyled: plain prefixes colored with lipgloss, used on a terminal
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
