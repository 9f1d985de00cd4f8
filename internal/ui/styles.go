package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#a78bfa")
	colorText    = lipgloss.Color("#c0c0c0")
	colorMuted   = lipgloss.Color("#808080")
	colorSubtle  = lipgloss.Color("#585858")
	colorCursor  = lipgloss.Color("#303030")
	colorSuccess = lipgloss.Color("#42b883")
	colorError   = lipgloss.Color("#ff5555")
)

type styles struct {
	text        lipgloss.Style
	muted       lipgloss.Style
	title       lipgloss.Style
	playing     lipgloss.Style
	cursor      lipgloss.Style
	target      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	pane        lipgloss.Style
	paneFocused lipgloss.Style
}

func defaultStyles() styles {
	text := lipgloss.NewStyle().Foreground(colorText)
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle)
	return styles{
		text:        text,
		muted:       lipgloss.NewStyle().Foreground(colorMuted),
		title:       text.Bold(true),
		playing:     lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		cursor:      text.Background(colorCursor),
		target:      lipgloss.NewStyle().Foreground(colorSuccess),
		status:      lipgloss.NewStyle().Foreground(colorMuted),
		errorStatus: lipgloss.NewStyle().Foreground(colorError),
		pane:        pane,
		paneFocused: pane.BorderForeground(colorAccent),
	}
}
