package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")).Underline(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147")).MarginTop(1)

	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idleStyle   = lipgloss.NewStyle().Faint(true)

	summaryStyle = lipgloss.NewStyle().MarginTop(1).Italic(true)
)
