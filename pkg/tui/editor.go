package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/profile"
	"github.com/pluqqy/memberdesk/pkg/store"
)

const labelWidth = 14

type fieldSavedMsg struct {
	field editing.FieldID
}

type fieldSaveFailedMsg struct {
	err *editing.PersistError
}

// fieldRejectedMsg reports a save the engine dropped before it ran, e.g.
// because the session was closed
type fieldRejectedMsg struct {
	field editing.FieldID
}

// saveFailures collects persistence errors per field between the engine's
// error handler and the command that ran the save
type saveFailures struct {
	mu      sync.Mutex
	byField map[editing.FieldID]*editing.PersistError
}

func (f *saveFailures) record(err error) {
	var pe *editing.PersistError
	if !errors.As(err, &pe) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byField[pe.Field] = pe
}

func (f *saveFailures) take(id editing.FieldID) *editing.PersistError {
	f.mu.Lock()
	defer f.mu.Unlock()
	pe := f.byField[id]
	delete(f.byField, id)
	return pe
}

// ProfileEditorModel edits one member inline, a field at a time. Enter
// starts editing the selected field and enter again saves it; esc restores
// the value it had before.
type ProfileEditorModel struct {
	ctx    context.Context
	member *models.Member

	engine     *editing.Engine
	fields     []editing.FieldConfig
	failures   *saveFailures
	committing map[editing.FieldID]bool
	failed     map[editing.FieldID]string

	cursor  int
	input   textinput.Model
	spinner spinner.Model
	bio     viewport.Model
	confirm *ConfirmationModel
	styles  Styles

	width  int
	height int
}

// NewProfileEditorModel opens an edit session for member backed by s
func NewProfileEditorModel(ctx context.Context, s store.Store, member *models.Member, styles Styles) *ProfileEditorModel {
	failures := &saveFailures{byField: map[editing.FieldID]*editing.PersistError{}}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Prompt = "› "

	m := &ProfileEditorModel{
		ctx:    ctx,
		member: member,
		engine: profile.NewSession(member,
			editing.WithPersister(store.Persister(s, member.ID)),
			editing.WithErrorHandler(failures.record),
		),
		fields:     profile.Fields(),
		failures:   failures,
		committing: map[editing.FieldID]bool{},
		failed:     map[editing.FieldID]string{},
		input:      ti,
		spinner:    sp,
		bio:        viewport.New(60, 4),
		confirm:    NewConfirmation(styles),
		width:      80,
		height:     24,
	}
	m.SetStyles(styles)
	m.refreshBio()
	return m
}

func (m *ProfileEditorModel) Init() tea.Cmd {
	return nil
}

// SetStyles applies a new theme
func (m *ProfileEditorModel) SetStyles(styles Styles) {
	m.styles = styles
	m.confirm.SetStyles(styles)
	m.spinner.Style = lipgloss.NewStyle().Foreground(styles.Palette.Warning)
	m.input.PromptStyle = styles.Cursor
	m.input.PlaceholderStyle = styles.Placeholder
}

// SetSize records the window size
func (m *ProfileEditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-labelWidth-10, 10)
	m.bio.Width = max(width-6, 10)
	m.bio.Height = max(height-len(m.fields)-14, 3)
	m.refreshBio()
}

// Engine exposes the edit session
func (m *ProfileEditorModel) Engine() *editing.Engine {
	return m.engine
}

// Close ends the session; a save still running is dropped
func (m *ProfileEditorModel) Close() {
	m.engine.Discard()
}

func (m *ProfileEditorModel) selected() editing.FieldConfig {
	return m.fields[m.cursor]
}

func (m *ProfileEditorModel) busy(id editing.FieldID) bool {
	return m.committing[id] || m.engine.IsSaving(id)
}

func (m *ProfileEditorModel) anyBusy() bool {
	for _, f := range m.fields {
		if m.busy(f.ID) {
			return true
		}
	}
	return false
}

func (m *ProfileEditorModel) refreshBio() {
	bio := m.engine.Value(models.FieldBio)
	if bio == "" {
		m.bio.SetContent(m.styles.Empty.Render("No bio yet"))
		return
	}
	m.bio.SetContent(wordwrap.String(bio, m.bio.Width))
}

func (m *ProfileEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case fieldSavedMsg:
		delete(m.committing, msg.field)
		delete(m.failed, msg.field)
		m.refreshBio()
		return m, statusCmd("Saved %s", m.label(msg.field))

	case fieldSaveFailedMsg:
		log.Printf("editor: member %s: %v (delta keys %v)", m.member.ID, msg.err, msg.err.Delta.Keys())
		delete(m.committing, msg.err.Field)
		m.failed[msg.err.Field] = msg.err.Err.Error()
		return m, statusCmd("Could not save %s: %v", m.label(msg.err.Field), msg.err.Err)

	case fieldRejectedMsg:
		delete(m.committing, msg.field)
		if m.engine.IsDiscarded() {
			return m, nil
		}
		return m, statusCmd("%s was not saved", m.label(msg.field))

	case spinner.TickMsg:
		if !m.anyBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.confirm.Active() {
			return m, m.confirm.Update(msg)
		}
		if active := m.engine.ActiveField(); active != "" && m.engine.IsEditing(active) {
			return m, m.handleEditingKey(active, msg)
		}
		return m, m.handleViewingKey(msg)
	}

	return m, nil
}

func (m *ProfileEditorModel) handleViewingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter", "e":
		return m.startEdit(m.selected())
	case "y":
		field := m.selected()
		if field.Masked() {
			return statusCmd("The password can not be copied")
		}
		value := m.engine.Value(field.ID)
		if value == "" {
			return statusCmd("%s is empty", field.DisplayName())
		}
		if err := writeClipboard(value); err != nil {
			return statusCmd("Failed to copy: %v", err)
		}
		return statusCmd("%s → clipboard", field.DisplayName())
	case "pgup":
		m.bio.ViewUp()
	case "pgdown":
		m.bio.ViewDown()
	case "esc", "q":
		return m.leave()
	}
	return nil
}

func (m *ProfileEditorModel) handleEditingKey(id editing.FieldID, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.commit(id)
	case "esc":
		m.engine.CancelEdit(id)
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.engine.ChangeValue(id, m.input.Value())
	return cmd
}

func (m *ProfileEditorModel) startEdit(field editing.FieldConfig) tea.Cmd {
	if m.busy(field.ID) {
		return statusCmd("%s is still saving", field.DisplayName())
	}
	if !m.engine.StartEdit(field.ID) {
		return nil
	}
	delete(m.failed, field.ID)

	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.input.Placeholder = field.DisplayName()
	if field.Masked() {
		m.input.EchoMode = textinput.EchoPassword
		m.input.Placeholder = fmt.Sprintf("at least %d characters", editing.MinPasswordLength)
	}
	m.input.SetValue(m.engine.Value(field.ID))
	m.input.CursorEnd()
	return m.input.Focus()
}

// commit moves the field to Saving right away and persists it in the
// background, so a later StartEdit can not revert it. Invalid values stay in
// edit mode with their messages shown.
func (m *ProfileEditorModel) commit(id editing.FieldID) tea.Cmd {
	delta, ok := m.engine.BeginCommit(id)
	if !ok {
		if len(m.engine.Errors(id)) > 0 {
			return nil
		}
		return statusCmd("%s is not being edited", m.label(id))
	}

	m.input.Blur()
	if len(delta) == 0 {
		return nil
	}
	m.committing[id] = true

	engine, ctx, failures := m.engine, m.ctx, m.failures
	save := func() tea.Msg {
		if !engine.Persist(ctx, id, delta) {
			return fieldRejectedMsg{field: id}
		}
		if pe := failures.take(id); pe != nil {
			return fieldSaveFailedMsg{err: pe}
		}
		return fieldSavedMsg{field: id}
	}
	return tea.Batch(save, m.spinner.Tick)
}

// leave goes back to the list, asking first while a save is running or
// when a failed save left values that are not stored
func (m *ProfileEditorModel) leave() tea.Cmd {
	back := func() tea.Cmd {
		m.Close()
		return func() tea.Msg { return SwitchViewMsg{view: memberListView} }
	}

	config := ConfirmationConfig{
		Destructive: true,
		Type:        ConfirmTypeDialog,
		Width:       min(max(m.width-4, 40), 64),
	}
	switch {
	case m.anyBusy():
		config.Title = "Save in progress"
		config.Message = "A save is still running. Leave anyway?"
	case m.engine.HasChanges():
		config.Title = "Unsaved changes"
		config.Message = "Unsaved changes will be lost. Leave anyway?"
	default:
		return back()
	}
	for _, id := range m.engine.Pending().Keys() {
		config.Details = append(config.Details, m.label(id))
	}

	m.confirm.Show(config, back, nil)
	return nil
}

func (m *ProfileEditorModel) label(id editing.FieldID) string {
	if f, ok := m.engine.Field(id); ok {
		return strings.ToLower(f.DisplayName())
	}
	return string(id)
}

func (m *ProfileEditorModel) View() string {
	var b strings.Builder
	b.WriteString(renderHeader(m.styles, m.width, "Edit "+m.member.Label()))
	b.WriteString("\n\n")

	var form strings.Builder
	for i, field := range m.fields {
		if i > 0 {
			form.WriteString("\n")
		}
		form.WriteString(m.renderField(i, field))
	}
	contentWidth := max(m.width-4, 20)
	b.WriteString(m.styles.BorderFor(m.engine.IsAnyFieldEditing()).Width(contentWidth).Render(form.String()))
	b.WriteString("\n")

	b.WriteString(m.styles.ContentPadding.Render(m.styles.FieldLabel.Render("Bio")))
	b.WriteString("\n")
	b.WriteString(m.styles.InactiveBorder.Width(contentWidth).Render(m.bio.View()))
	b.WriteString("\n")

	b.WriteString(m.styles.ContentPadding.Render(m.statusLine()))
	b.WriteString("\n")

	if m.confirm.Active() {
		b.WriteString(m.confirm.View())
	} else if m.engine.IsAnyFieldEditing() {
		b.WriteString(m.styles.Description.Render(" enter save • esc cancel"))
	} else {
		b.WriteString(m.styles.Description.Render(" ↑/↓ move • enter edit • y copy • pgup/pgdn scroll bio • ctrl+t theme • esc back"))
	}
	return b.String()
}

func (m *ProfileEditorModel) renderField(i int, field editing.FieldConfig) string {
	label := field.DisplayName()
	if field.Required {
		label += "*"
	}

	marker := "  "
	labelStyle := m.styles.Header
	if i == m.cursor {
		marker = m.styles.Cursor.Render("▸ ")
		labelStyle = m.styles.FieldLabel
	}
	prefix := marker + labelStyle.Width(labelWidth).Render(label)

	switch {
	case m.engine.IsEditing(field.ID):
		line := prefix + m.input.View()
		for _, msg := range m.engine.Errors(field.ID) {
			line += "\n" + strings.Repeat(" ", labelWidth+2) + m.styles.Error.Render("✗ "+msg)
		}
		return line
	case m.busy(field.ID):
		return prefix + m.displayValue(field) + " " + m.styles.SavingBadge.Render(m.spinner.View()+" saving")
	}

	line := prefix + m.displayValue(field)
	if msg, ok := m.failed[field.ID]; ok {
		line += "\n" + strings.Repeat(" ", labelWidth+2) + m.styles.Error.Render("✗ not saved: "+msg)
	}
	return line
}

func (m *ProfileEditorModel) displayValue(field editing.FieldConfig) string {
	if field.Masked() {
		if m.member.HasPassword() || m.engine.Baseline()[string(field.ID)] != nil {
			return m.styles.Normal.Render("••••••••")
		}
		return m.styles.Empty.Render("not set")
	}

	value := m.engine.Value(field.ID)
	if value == "" {
		return m.styles.Empty.Render("—")
	}
	width := uint(max(m.width-labelWidth-10, 10))
	return m.styles.Normal.Render(truncate.StringWithTail(strings.ReplaceAll(value, "\n", " "), width, "…"))
}

func (m *ProfileEditorModel) statusLine() string {
	var parts []string
	if m.member.EmailVerified && m.engine.Value(models.FieldEmail) == m.member.Email {
		parts = append(parts, m.styles.VerifiedBadge.Render("email verified"))
	} else {
		parts = append(parts, m.styles.PendingBadge.Render("email not verified"))
	}
	parts = append(parts, m.styles.Description.Render("created "+m.member.CreatedAt.Local().Format("2006-01-02")))
	if m.engine.HasChanges() {
		parts = append(parts, m.styles.Warning.Render("unsaved changes"))
	}
	return strings.Join(parts, "  ")
}
