package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	number    lipgloss.Style
	focused   lipgloss.Style
	comment   lipgloss.Style
	result    lipgloss.Style
	errResult lipgloss.Style
	tooltip   lipgloss.Style
	panel     lipgloss.Style
	title     lipgloss.Style
	status    lipgloss.Style
}

func defaultStyles() styles {
	brand := lipgloss.AdaptiveColor{Light: "26", Dark: "81"}
	subtle := lipgloss.AdaptiveColor{Light: "245", Dark: "244"}
	border := lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	return styles{
		number:    lipgloss.NewStyle().Foreground(subtle),
		focused:   lipgloss.NewStyle().Bold(true).Foreground(brand),
		comment:   lipgloss.NewStyle().Foreground(subtle).Italic(true),
		result:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errResult: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		tooltip:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("203")).Padding(0, 1),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		title:     lipgloss.NewStyle().Bold(true).Foreground(brand),
		status:    lipgloss.NewStyle().Foreground(subtle),
	}
}
