package logging

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Format selects how ConsoleLogger renders messages.
type Format int

const (
	FormatPlain Format = iota
	FormatGitHub
	FormatStyled
)

var (
	colorMuted   = lipgloss.Color("240")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")

	verboseStyle = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// DetectFormat chooses the output format for the current process.
//
// Returns FormatGitHub when GITHUB_ACTIONS=true, FormatStyled when stderr is a
// terminal and NO_COLOR is unset, FormatPlain otherwise.
func DetectFormat() Format {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return FormatGitHub
	}
	if os.Getenv("NO_COLOR") != "" {
		return FormatPlain
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return FormatStyled
	}
	return FormatPlain
}
