package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/pagination"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// writeClipboard is swapped out in tests
var writeClipboard = clipboard.WriteAll

// membersPageMsg carries one fetched page back to the list. gen ties it to
// the load that asked for it; answers to an older load are dropped.
type membersPageMsg struct {
	gen     int
	offset  int
	members []*models.Member
	total   int
	err     error
}

type memberDeletedMsg struct {
	member *models.Member
	err    error
}

// MemberListModel shows members one page at a time and loads the next page
// when the cursor reaches the last loaded row
type MemberListModel struct {
	ctx      context.Context
	store    store.Store
	pageSize int

	acc     *pagination.Accumulator[*models.Member]
	pending *int // offset the accumulator asked for, not yet dispatched
	gen     int
	query   string

	cursor int
	top    int // first visible row

	searchBar *SearchBar
	spinner   spinner.Model
	confirm   *ConfirmationModel
	styles    Styles

	width  int
	height int
	err    error
}

// NewMemberListModel creates the list. Call Init (or Reload) to fetch the
// first page.
func NewMemberListModel(ctx context.Context, s store.Store, pageSize int, styles Styles) *MemberListModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &MemberListModel{
		ctx:       ctx,
		store:     s,
		pageSize:  pageSize,
		searchBar: NewSearchBar(styles),
		spinner:   sp,
		confirm:   NewConfirmation(styles),
		width:     80,
		height:    24,
	}
	m.SetStyles(styles)
	m.acc = pagination.NewAccumulator[*models.Member](pagination.Options{Limit: pageSize}, func(offset int) {
		m.pending = &offset
	})
	return m
}

func (m *MemberListModel) Init() tea.Cmd {
	return m.Reload()
}

// SetStyles applies a new theme
func (m *MemberListModel) SetStyles(styles Styles) {
	m.styles = styles
	m.searchBar.SetStyles(styles)
	m.confirm.SetStyles(styles)
	m.spinner.Style = lipgloss.NewStyle().Foreground(styles.Palette.Active)
}

// SetSize records the window size
func (m *MemberListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchBar.SetWidth(width)
	m.scroll()
}

// Reload fetches the first page again. Loaded members stay visible until
// the answer arrives.
func (m *MemberListModel) Reload() tea.Cmd {
	m.gen++
	m.err = nil
	m.acc.Refresh()
	return tea.Batch(m.takeFetch(), m.spinner.Tick)
}

// SetQuery filters the list by name or email and starts over
func (m *MemberListModel) SetQuery(query string) tea.Cmd {
	m.query = strings.TrimSpace(query)
	m.searchBar.SetValue(m.query)
	m.acc.Reset(nil)
	m.cursor, m.top = 0, 0
	return m.Reload()
}

// Selected returns the member under the cursor
func (m *MemberListModel) Selected() *models.Member {
	items := m.acc.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	return items[m.cursor]
}

func (m *MemberListModel) takeFetch() tea.Cmd {
	if m.pending == nil {
		return nil
	}
	offset := *m.pending
	m.pending = nil
	return m.fetchPage(m.gen, offset)
}

func (m *MemberListModel) fetchPage(gen, offset int) tea.Cmd {
	ctx, s := m.ctx, m.store
	opts := store.ListOptions{Offset: offset, Limit: m.pageSize, Query: m.query}
	return func() tea.Msg {
		page, err := s.List(ctx, opts)
		if err != nil {
			return membersPageMsg{gen: gen, offset: offset, err: err}
		}
		return membersPageMsg{gen: gen, offset: offset, members: page.Members, total: page.Total}
	}
}

// loadMore asks for the next page when the cursor sits on the last row
func (m *MemberListModel) loadMore() tea.Cmd {
	if m.cursor < m.acc.Len()-1 || !m.acc.LoadMore() {
		return nil
	}
	return tea.Batch(m.takeFetch(), m.spinner.Tick)
}

func (m *MemberListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case membersPageMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("list: page at offset %d failed: %v", msg.offset, msg.err)
			m.acc.FailLoading()
			m.err = msg.err
			return m, statusCmd("Failed to load members: %v", msg.err)
		}
		m.err = nil
		m.acc.UpdateItems(msg.members, pagination.Total(msg.total), m.acc.IsLoadingFirstPage())
		m.clampCursor()
		return m, nil

	case memberDeletedMsg:
		if msg.err != nil {
			log.Printf("list: delete %s failed: %v", msg.member.ID, msg.err)
			return m, statusCmd("Failed to delete %s: %v", msg.member.Label(), msg.err)
		}
		return m, tea.Batch(m.Reload(), statusCmd("Deleted %s", msg.member.Label()))

	case spinner.TickMsg:
		if !m.acc.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *MemberListModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm.Active() {
		return m.confirm.Update(msg)
	}

	if m.searchBar.Active() {
		switch msg.String() {
		case "enter":
			m.searchBar.SetActive(false)
			return m.SetQuery(m.searchBar.Value())
		case "esc":
			m.searchBar.SetActive(false)
			m.searchBar.SetValue(m.query)
			return nil
		}
		var cmd tea.Cmd
		m.searchBar, cmd = m.searchBar.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
		return m.loadMore()
	case "pgup":
		m.move(-m.visibleRows())
	case "pgdown":
		m.move(m.visibleRows())
		return m.loadMore()
	case "home", "g":
		m.move(-m.cursor)
	case "end", "G":
		m.move(m.acc.Len())
		return m.loadMore()
	case "enter", "e":
		if member := m.Selected(); member != nil {
			return func() tea.Msg { return SwitchViewMsg{view: profileEditorView, member: member} }
		}
	case "/":
		return m.searchBar.SetActive(true)
	case "esc":
		if m.query != "" {
			return m.SetQuery("")
		}
	case "r":
		return m.Reload()
	case "y":
		if member := m.Selected(); member != nil {
			if err := writeClipboard(member.Email); err != nil {
				return statusCmd("Failed to copy: %v", err)
			}
			return statusCmd("%s → clipboard", member.Email)
		}
	case "d":
		if member := m.Selected(); member != nil {
			m.confirm.ShowInline(fmt.Sprintf("Delete %s? This cannot be undone.", member.Label()), true, func() tea.Cmd {
				return m.deleteMember(member)
			}, nil)
		}
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *MemberListModel) deleteMember(member *models.Member) tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		return memberDeletedMsg{member: member, err: s.Delete(ctx, member.ID)}
	}
}

func (m *MemberListModel) move(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *MemberListModel) clampCursor() {
	n := m.acc.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window
func (m *MemberListModel) scroll() {
	rows := m.visibleRows()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+rows {
		m.top = m.cursor - rows + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

// visibleRows is the table height left after header, search bar, borders,
// column header, footer and help
func (m *MemberListModel) visibleRows() int {
	return max(m.height-11, 3)
}

func (m *MemberListModel) View() string {
	items := m.acc.Items()
	state := m.acc.State()

	var b strings.Builder
	b.WriteString(renderHeader(m.styles, m.width, fmt.Sprintf("Members (%d of %d)", len(items), state.Total)))
	b.WriteString("\n")
	b.WriteString(m.searchBar.View())
	b.WriteString("\n")

	contentWidth := max(m.width-4, 20)
	var table strings.Builder
	switch {
	case len(items) == 0 && m.acc.IsLoadingFirstPage():
		table.WriteString(m.spinner.View() + " Loading members...")
	case len(items) == 0 && m.err != nil:
		table.WriteString(m.styles.Error.Render("Could not load members: " + m.err.Error()))
	case len(items) == 0 && m.query != "":
		table.WriteString(m.styles.Empty.Render(fmt.Sprintf("No members match %q", m.query)))
	case len(items) == 0:
		table.WriteString(m.styles.Empty.Render("No members yet. Add one with 'memberdesk create'."))
	default:
		table.WriteString(m.renderRows(items, contentWidth))
	}

	b.WriteString(m.styles.BorderFor(!m.searchBar.Active()).Width(contentWidth).Render(table.String()))
	b.WriteString("\n")
	b.WriteString(m.styles.ContentPadding.Render(m.footer(len(items), state)))
	b.WriteString("\n")

	if m.confirm.Active() {
		b.WriteString(m.confirm.View())
	} else {
		b.WriteString(m.styles.Description.Render(" ↑/↓ move • enter edit • / filter • r reload • y copy email • d delete • ctrl+t theme • q quit"))
	}
	return b.String()
}

func (m *MemberListModel) renderRows(items []*models.Member, width int) string {
	nameWidth := min(30, width/3)
	verifiedWidth := 3
	updatedWidth := 16
	emailWidth := max(width-nameWidth-verifiedWidth-updatedWidth-6, 10)

	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).Render(truncate.StringWithTail(s, uint(w), "…"))
	}
	row := func(name, email, verified, updated string) string {
		return strings.Join([]string{cell(name, nameWidth), cell(email, emailWidth), cell(verified, verifiedWidth), cell(updated, updatedWidth)}, "  ")
	}

	lines := []string{m.styles.Header.Render(row("NAME", "EMAIL", "✓", "UPDATED"))}

	end := min(m.top+m.visibleRows(), len(items))
	for i := m.top; i < end; i++ {
		member := items[i]
		verified := ""
		if member.EmailVerified {
			verified = "✓"
		}
		line := row(member.Label(), member.Email, verified, member.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if i == m.cursor {
			lines = append(lines, m.styles.Selected.Render("▸ "+line))
		} else {
			lines = append(lines, m.styles.Normal.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *MemberListModel) footer(loaded int, state pagination.State) string {
	var parts []string
	if m.query != "" {
		parts = append(parts, fmt.Sprintf("filter: %q (esc to clear)", m.query))
	}

	switch {
	case m.acc.IsLoadingMore():
		parts = append(parts, m.spinner.View()+" loading more...")
	case m.acc.CanLoadMore():
		parts = append(parts, fmt.Sprintf("%d more below", state.Total-loaded))
	case loaded > 0:
		parts = append(parts, "all members loaded")
	}

	if meta := m.acc.Meta(); meta.TotalPages > 1 {
		pages := (loaded + state.Limit - 1) / state.Limit
		parts = append(parts, fmt.Sprintf("pages %d/%d", pages, meta.TotalPages))
	}
	return m.styles.Description.Render(strings.Join(parts, " • "))
}
