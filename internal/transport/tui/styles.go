package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#C678DD")
	colorUser   = lipgloss.Color("#61AFEF")
	colorBot    = lipgloss.Color("#98C379")
	colorWarn   = lipgloss.Color("#E5C07B")
	colorMuted  = lipgloss.Color("#5C6370")
	colorBorder = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorBot).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	viewportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)
