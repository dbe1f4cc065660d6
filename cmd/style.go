package cmd

import "github.com/charmbracelet/lipgloss"

// Styles for command output. lipgloss drops colors when the output is not a terminal.
var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")) // red
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))           // green
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))           // yellow
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
