// Package ui renders boards, tasks, categories, and invitations for the
// terminal, and collects input through interactive forms when stdin is a TTY.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	statusStyles = map[string]lipgloss.Style{
		"todo":        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"done":        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(28)
)

// IsInteractive reports whether stdin is a terminal, which gates the huh
// forms: scripts and pipes get flag-only behavior.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// colorEnabled reports whether the terminal supports color at all.
func colorEnabled() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

// Error renders an error line for the terminal.
func Error(msg string) string {
	if !colorEnabled() {
		return "Error: " + msg
	}
	return errorStyle.Render("Error: " + msg)
}

// Success renders a success line for the terminal.
func Success(msg string) string {
	if !colorEnabled() {
		return msg
	}
	return successStyle.Render(msg)
}

func renderStatus(status string) string {
	if style, ok := statusStyles[status]; ok && colorEnabled() {
		return style.Render(status)
	}
	return status
}

func renderPriority(priority string) string {
	if style, ok := priorityStyles[priority]; ok && colorEnabled() {
		return style.Render(priority)
	}
	return priority
}
