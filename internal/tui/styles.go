package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobboard/internal/session"
)

type styles struct {
	app           lipgloss.Style
	pageTitle     lipgloss.Style
	pageSubtitle  lipgloss.Style
	card          lipgloss.Style
	selectedCard  lipgloss.Style
	jobTitle      lipgloss.Style
	jobSubtitle   lipgloss.Style
	savedBadge    lipgloss.Style
	label         lipgloss.Style
	value         lipgloss.Style
	hint          lipgloss.Style
	statusBar     lipgloss.Style
	toggle        lipgloss.Style
	errorText     lipgloss.Style
	focusedButton lipgloss.Style
	button        lipgloss.Style
}

// newStyles derives every style from the palette so that toggling the theme
// only needs a rebuild.
func newStyles(p session.Palette) styles {
	text := lipgloss.Color(p.Text)
	card := lipgloss.Color(p.CardBackground)
	header := lipgloss.Color(p.HeaderBackground)

	return styles{
		app: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Background)).
			Foreground(text),

		pageTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(header).
			Padding(0, 1),

		pageSubtitle: lipgloss.NewStyle().
			Foreground(text).
			Padding(0, 1),

		card: lipgloss.NewStyle().
			Background(card).
			Foreground(text).
			Border(lipgloss.HiddenBorder(), false, false, false, true),

		selectedCard: lipgloss.NewStyle().
			Background(card).
			Foreground(text).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(p.ToggleBackground)),

		jobTitle: lipgloss.NewStyle().
			Bold(true),

		jobSubtitle: lipgloss.NewStyle().
			Faint(true),

		savedBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#28A745")).
			Padding(0, 1),

		label: lipgloss.NewStyle().
			Bold(true).
			Width(18),

		value: lipgloss.NewStyle(),

		hint: lipgloss.NewStyle().
			Italic(true).
			Faint(true),

		statusBar: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(text).
			Background(header),

		toggle: lipgloss.NewStyle().
			Foreground(text).
			Background(lipgloss.Color(p.ToggleBackground)).
			Padding(0, 1),

		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC3545")),

		focusedButton: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#007BFF")).
			Padding(0, 2),

		button: lipgloss.NewStyle().
			Foreground(text).
			Background(header).
			Padding(0, 2),
	}
}
