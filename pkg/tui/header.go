package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const logo = "memberdesk"

// renderHeader puts title on the left and the logo on the right
func renderHeader(styles Styles, width int, title string) string {
	logoRendered := styles.Title.Render("◆ " + logo)
	titleRendered := styles.Header.Render(title)

	contentWidth := width - 2
	gap := contentWidth - lipgloss.Width(titleRendered) - lipgloss.Width(logoRendered)
	if gap < 1 {
		return styles.ContentPadding.Render(titleRendered)
	}

	row := lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		lipgloss.NewStyle().Width(gap).Render(""),
		logoRendered,
	)
	return styles.ContentPadding.Width(width).Render(row)
}
