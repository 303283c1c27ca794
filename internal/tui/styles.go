package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	keptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	discardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Strikethrough(true)
	oldValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	newValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	statusStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#A8A8A8"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
	addLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	delLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	hunkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
)
