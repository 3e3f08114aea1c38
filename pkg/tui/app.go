// Package tui is the interactive member browser and profile editor.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
	"github.com/pluqqy/memberdesk/pkg/theme"
)

// StatusDuration is how long a status message stays visible
const StatusDuration = 3 * time.Second

type viewState int

const (
	memberListView viewState = iota
	profileEditorView
)

// Messages for communication between views
type StatusMsg string

type clearStatusMsg struct {
	seq int
}

type SwitchViewMsg struct {
	view   viewState
	member *models.Member // member to edit
}

func statusCmd(format string, args ...any) tea.Cmd {
	msg := StatusMsg(fmt.Sprintf(format, args...))
	return func() tea.Msg { return msg }
}

// App routes messages to the active view and owns the status bar and theme
type App struct {
	ctx      context.Context
	store    store.Store
	themes   *theme.Store
	styles   Styles
	pageSize int

	state    viewState
	list     *MemberListModel
	editor   *ProfileEditorModel
	editOnly bool // quit instead of returning to the list

	width     int
	height    int
	statusMsg string
	statusSeq int
}

// NewApp creates the TUI starting at the member list
func NewApp(ctx context.Context, s store.Store, themes *theme.Store, pageSize int) *App {
	a := &App{
		ctx:      ctx,
		store:    s,
		themes:   themes,
		styles:   NewStyles(themes.Palette()),
		pageSize: pageSize,
		state:    memberListView,
	}
	a.list = NewMemberListModel(ctx, s, pageSize, a.styles)
	return a
}

// NewEditorApp creates the TUI opened straight on member's profile. Leaving
// the editor quits.
func NewEditorApp(ctx context.Context, s store.Store, themes *theme.Store, member *models.Member) *App {
	a := &App{
		ctx:      ctx,
		store:    s,
		themes:   themes,
		styles:   NewStyles(themes.Palette()),
		state:    profileEditorView,
		editOnly: true,
	}
	a.editor = NewProfileEditorModel(ctx, s, member, a.styles)
	return a
}

// Run starts the program and blocks until it exits
func Run(ctx context.Context, app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if app.editor != nil {
		app.editor.Close()
	}
	return err
}

func (a *App) Init() tea.Cmd {
	if a.state == profileEditorView {
		return a.editor.Init()
	}
	return a.list.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.list != nil {
			a.list.SetSize(msg.Width, msg.Height-1)
		}
		if a.editor != nil {
			a.editor.SetSize(msg.Width, msg.Height-1)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if a.editor != nil {
				a.editor.Close()
			}
			return a, tea.Quit
		case tea.KeyCtrlT:
			return a, a.toggleTheme()
		}

	case StatusMsg:
		a.statusMsg = string(msg)
		a.statusSeq++
		seq := a.statusSeq
		return a, tea.Tick(StatusDuration, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
		}
		return a, nil

	case SwitchViewMsg:
		return a, a.switchView(msg)
	}

	var cmd tea.Cmd
	switch a.state {
	case memberListView:
		_, cmd = a.list.Update(msg)
	case profileEditorView:
		_, cmd = a.editor.Update(msg)
	}
	return a, cmd
}

func (a *App) switchView(msg SwitchViewMsg) tea.Cmd {
	switch msg.view {
	case profileEditorView:
		if msg.member == nil {
			return nil
		}
		a.state = profileEditorView
		a.editor = NewProfileEditorModel(a.ctx, a.store, msg.member, a.styles)
		a.editor.SetSize(a.width, a.height-1)
		return a.editor.Init()

	case memberListView:
		if a.editor != nil {
			a.editor.Close()
			a.editor = nil
		}
		if a.editOnly {
			return tea.Quit
		}
		a.state = memberListView
		if a.list == nil {
			a.list = NewMemberListModel(a.ctx, a.store, a.pageSize, a.styles)
			a.list.SetSize(a.width, a.height-1)
		}
		// profiles may have changed while editing
		return a.list.Reload()
	}
	return nil
}

func (a *App) toggleTheme() tea.Cmd {
	name, err := a.themes.Toggle()
	a.applyStyles(NewStyles(a.themes.Palette()))
	if err != nil {
		return statusCmd("Theme %s not saved: %v", name, err)
	}
	return statusCmd("Theme: %s", name)
}

func (a *App) applyStyles(styles Styles) {
	a.styles = styles
	if a.list != nil {
		a.list.SetStyles(styles)
	}
	if a.editor != nil {
		a.editor.SetStyles(styles)
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var content string
	switch a.state {
	case memberListView:
		content = a.list.View()
	case profileEditorView:
		content = a.editor.View()
	}

	if a.statusMsg != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, a.styles.StatusBar.Render(a.statusMsg))
	}
	return content
}
