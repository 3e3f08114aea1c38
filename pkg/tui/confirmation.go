package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationType defines the visual style of the confirmation
type ConfirmationType int

const (
	ConfirmTypeInline ConfirmationType = iota // one line under the view
	ConfirmTypeDialog                         // bordered, centered box
)

// ConfirmationConfig holds the configuration for a confirmation prompt
type ConfirmationConfig struct {
	Title       string
	Message     string
	Warning     string
	Details     []string
	Destructive bool
	Type        ConfirmationType
	YesLabel    string // default "Yes"
	NoLabel     string // default "No"
	Width       int
}

// ConfirmationModel handles yes/no prompts
type ConfirmationModel struct {
	active    bool
	config    ConfirmationConfig
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
	styles    Styles
}

// NewConfirmation creates a new confirmation model
func NewConfirmation(styles Styles) *ConfirmationModel {
	return &ConfirmationModel{styles: styles}
}

// SetStyles swaps the styles after a theme change
func (m *ConfirmationModel) SetStyles(styles Styles) {
	m.styles = styles
}

// Show activates the confirmation with the given configuration
func (m *ConfirmationModel) Show(config ConfirmationConfig, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.config = config
	m.onConfirm = onConfirm
	m.onCancel = onCancel

	if m.config.YesLabel == "" {
		m.config.YesLabel = "Yes"
	}
	if m.config.NoLabel == "" {
		m.config.NoLabel = "No"
	}
}

// ShowInline is a shorthand for a one-line prompt
func (m *ConfirmationModel) ShowInline(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	m.Show(ConfirmationConfig{
		Message:     message,
		Destructive: destructive,
		Type:        ConfirmTypeInline,
	}, onConfirm, onCancel)
}

// Hide deactivates the confirmation
func (m *ConfirmationModel) Hide() {
	m.active = false
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update answers the prompt on y/n/esc. Other keys are swallowed.
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}
	return nil
}

// View renders the confirmation based on its type
func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}
	if m.config.Type == ConfirmTypeDialog {
		return m.renderDialog()
	}
	return m.renderInline()
}

func (m *ConfirmationModel) renderInline() string {
	message := fmt.Sprintf("%s %s", m.config.Message, m.styles.formatConfirmOptions(m.config.Destructive))
	if m.config.Width > 0 && lipgloss.Width(message) < m.config.Width {
		return lipgloss.NewStyle().Width(m.config.Width).Align(lipgloss.Center).Render(message)
	}
	return message
}

func (m *ConfirmationModel) renderDialog() string {
	width := m.config.Width
	if width == 0 {
		width = 60
	}
	center := lipgloss.NewStyle().Width(width - 4).Align(lipgloss.Center)

	var b strings.Builder
	if m.config.Title != "" {
		b.WriteString(center.Render(m.styles.Warning.Render(m.config.Title)))
		b.WriteString("\n\n")
	}
	if m.config.Message != "" {
		b.WriteString(center.Render(m.config.Message))
		b.WriteString("\n")
	}
	if m.config.Warning != "" {
		b.WriteString("\n")
		b.WriteString(center.Render(m.styles.Warning.Render(m.config.Warning)))
		b.WriteString("\n")
	}
	if len(m.config.Details) > 0 {
		b.WriteString("\n")
		for _, detail := range m.config.Details {
			b.WriteString(m.styles.Description.Render("  • " + detail))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	labels := fmt.Sprintf("(%s / %s)", strings.ToLower(m.config.YesLabel), strings.ToLower(m.config.NoLabel))
	b.WriteString(center.Render(m.styles.formatConfirmOptions(m.config.Destructive) + "  " + labels))

	return m.styles.ActiveBorder.Width(width).Render(b.String())
}
