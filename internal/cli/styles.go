package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var (
	youPrompt     = color.New(color.FgGreen, color.Bold).SprintFunc()
	assistantName = color.New(color.FgCyan, color.Bold).SprintFunc()
	faint         = color.New(color.Faint).SprintFunc()
)
