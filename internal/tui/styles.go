package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#377eb8", Dark: "#6baed6"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#8a8a8a"}
	ColorError  = lipgloss.AdaptiveColor{Light: "#c0392b", Dark: "#ff6b6b"}

	statusStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)
