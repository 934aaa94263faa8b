package cli

import "github.com/charmbracelet/lipgloss"

// Console styles. lipgloss drops the escape codes when output is not a
// terminal, so tests and pipes see plain text.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	priceStyle = lipgloss.NewStyle().Bold(true)
)

const (
	checkMark = "✓"
	crossMark = "✗"
)
