package tui

import "github.com/charmbracelet/lipgloss"

// Theme styles the beerprep screens. Staged, Unstaged and Broken mark the
// per-split rows of the status screen.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Toast    lipgloss.Style

	Staged   lipgloss.Style
	Unstaged lipgloss.Style
	Broken   lipgloss.Style
}

func DefaultTheme() Theme {
	faint := lipgloss.NewStyle().Faint(true)
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		Subtitle: faint,
		Help:     faint,
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("36")),
		Toast: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),

		Staged:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Unstaged: faint,
		Broken:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
