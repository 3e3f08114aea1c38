package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/memberdesk/pkg/theme"
)

// Styles holds every style the views render with. It is rebuilt whenever
// the theme changes.
type Styles struct {
	Palette theme.Palette

	// Border styles
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	// Selection styles
	Selected lipgloss.Style
	Normal   lipgloss.Style

	// Header styles
	Title      lipgloss.Style
	Header     lipgloss.Style
	FieldLabel lipgloss.Style

	// Padding styles
	ContentPadding lipgloss.Style

	// Message styles
	Empty       lipgloss.Style
	Description lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Success     lipgloss.Style
	StatusBar   lipgloss.Style

	// Input styles
	Input       lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style

	// Badges
	SavingBadge   lipgloss.Style
	VerifiedBadge lipgloss.Style
	PendingBadge  lipgloss.Style
}

// NewStyles builds the styles for palette p
func NewStyles(p theme.Palette) Styles {
	return Styles{
		Palette: p,

		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Active),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Inactive),

		Selected: lipgloss.NewStyle().
			Foreground(p.Active).
			Background(p.Selected).
			Bold(true),
		Normal: lipgloss.NewStyle().
			Foreground(p.Normal),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Active),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Dim),
		FieldLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Warning),

		ContentPadding: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),

		Empty: lipgloss.NewStyle().
			Foreground(p.VeryDim).
			Italic(true),
		Description: lipgloss.NewStyle().
			Foreground(p.Dim),
		Error: lipgloss.NewStyle().
			Foreground(p.Danger),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(p.Success),
		StatusBar: lipgloss.NewStyle().
			Background(p.Primary).
			Foreground(p.Text).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Active).
			Padding(0, 1),
		Placeholder: lipgloss.NewStyle().
			Foreground(p.Dim).
			Italic(true),
		Cursor: lipgloss.NewStyle().
			Foreground(p.Active).
			Bold(true),

		SavingBadge: lipgloss.NewStyle().
			Background(p.Warning).
			Foreground(p.Contrast).
			Padding(0, 1).
			Bold(true),
		VerifiedBadge: lipgloss.NewStyle().
			Background(p.Success).
			Foreground(p.Text).
			Padding(0, 1),
		PendingBadge: lipgloss.NewStyle().
			Foreground(p.Dim).
			Padding(0, 1),
	}
}

// BorderFor picks the active or inactive border
func (s Styles) BorderFor(active bool) lipgloss.Style {
	if active {
		return s.ActiveBorder
	}
	return s.InactiveBorder
}

// formatConfirmOptions renders the [Y]es / [N]o hint. Destructive prompts
// show Yes in red and No in green.
func (s Styles) formatConfirmOptions(destructive bool) string {
	yes := lipgloss.NewStyle().Bold(true).Foreground(s.Palette.Success)
	no := lipgloss.NewStyle().Bold(true).Foreground(s.Palette.Danger)
	if destructive {
		yes, no = no, yes
	}
	return yes.Render("[Y]es") + " / " + no.Render("[N]o")
}
