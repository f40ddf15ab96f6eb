package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError  = lipgloss.Color("#E53935")
	colorOK     = lipgloss.Color("#43A047")
)

type styles struct {
	Title    lipgloss.Style
	Search   lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Text     lipgloss.Style
	Author   lipgloss.Style
	Badge    lipgloss.Style
	Empty    lipgloss.Style
	Modal    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

func defaultStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1).
		MarginBottom(1)

	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1),
		Search:   lipgloss.NewStyle().MarginBottom(1),
		Card:     card,
		Selected: card.BorderForeground(colorAccent),
		Text:     lipgloss.NewStyle().Italic(true),
		Author:   lipgloss.NewStyle().Foreground(colorMuted),
		Badge:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Empty:    lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2),
		Label:   lipgloss.NewStyle().Foreground(colorMuted),
		Focused: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Status:  lipgloss.NewStyle().Foreground(colorOK),
		Error:   lipgloss.NewStyle().Foreground(colorError),
	}
}
