package ui

import "github.com/charmbracelet/lipgloss"

var (
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	Danger = lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")).
		Bold(true)
)
