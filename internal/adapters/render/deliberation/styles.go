package deliberation

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	phase       lipgloss.Style
	detail      lipgloss.Style
	section     lipgloss.Style
	empty       lipgloss.Style
	failure     lipgloss.Style
	badgeDone   lipgloss.Style
	badgeActive lipgloss.Style
	badgeOther  lipgloss.Style
	sourceTitle lipgloss.Style
	sourceURL   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true),
		header:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		phase:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
		section:     lipgloss.NewStyle().MarginTop(1),
		empty:       lipgloss.NewStyle().Faint(true),
		failure:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		badgeDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		badgeActive: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		badgeOther:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		sourceTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		sourceURL:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Underline(true),
	}
}
