package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchBar is the member filter input shown above the list
type SearchBar struct {
	input    textinput.Model
	isActive bool
	width    int
	styles   Styles
}

// NewSearchBar creates a new search bar component
func NewSearchBar(styles Styles) *SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Filter by name or email..."
	ti.CharLimit = 100
	ti.Width = 50

	return &SearchBar{input: ti, styles: styles}
}

// SetStyles swaps the styles after a theme change
func (s *SearchBar) SetStyles(styles Styles) {
	s.styles = styles
}

// SetActive focuses or blurs the input
func (s *SearchBar) SetActive(active bool) tea.Cmd {
	s.isActive = active
	if active {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

// Active reports whether the bar has focus
func (s *SearchBar) Active() bool {
	return s.isActive
}

// SetWidth sets the width for the search bar
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	// borders, padding and the icon
	s.input.Width = max(width-12, 10)
}

// Value returns the current search text
func (s *SearchBar) Value() string {
	return s.input.Value()
}

// SetValue sets the search text
func (s *SearchBar) SetValue(value string) {
	s.input.SetValue(value)
}

// Reset clears the search input
func (s *SearchBar) Reset() {
	s.input.SetValue("")
}

// Update handles tea messages for the search bar
func (s *SearchBar) Update(msg tea.Msg) (*SearchBar, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the search bar
func (s *SearchBar) View() string {
	p := s.styles.Palette

	icon := lipgloss.NewStyle().Foreground(p.Normal).Bold(true).Render(" ⌕ ")
	if s.isActive {
		icon = lipgloss.NewStyle().
			Background(p.Active).
			Foreground(p.Text).
			Bold(true).
			Padding(0, 1).
			Render("⌕")
	}

	content := lipgloss.JoinHorizontal(lipgloss.Center, icon, " ", s.input.View())
	box := s.styles.BorderFor(s.isActive).
		Width(max(s.width-4, 0)).
		Padding(0, 1)

	return s.styles.ContentPadding.Render(box.Render(content))
}
