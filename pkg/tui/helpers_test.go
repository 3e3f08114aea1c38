package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
	"github.com/pluqqy/memberdesk/pkg/theme"
)

var errBackend = errors.New("backend unavailable")

// failingStore fails List and Update, everything else goes to Store
type failingStore struct {
	store.Store
	failList   bool
	failUpdate bool
}

func (s *failingStore) List(ctx context.Context, opts store.ListOptions) (*store.Page, error) {
	if s.failList {
		return nil, errBackend
	}
	return s.Store.List(ctx, opts)
}

func (s *failingStore) Update(ctx context.Context, id string, delta editing.Values) (*models.Member, error) {
	if s.failUpdate {
		return nil, errBackend
	}
	return s.Store.Update(ctx, id, delta)
}

// newTestStore creates n members named "Member 01".. with emails
// m01@example.com.., oldest first
func newTestStore(t *testing.T, n int) store.Store {
	t.Helper()

	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		member, err := store.NewMember(editing.Values{
			models.FieldFirstName: "Member",
			models.FieldLastName:  fmt.Sprintf("%02d", i),
			models.FieldEmail:     fmt.Sprintf("m%02d@example.com", i),
		}, base)
		require.NoError(t, err)
		member.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		member.UpdatedAt = member.CreatedAt
		_, err = s.Create(context.Background(), member)
		require.NoError(t, err)
	}
	return s
}

func firstMember(t *testing.T, s store.Store) *models.Member {
	t.Helper()
	page, err := s.List(context.Background(), store.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.NotEmpty(t, page.Members)
	return page.Members[0]
}

func testStyles() Styles {
	return NewStyles(theme.PaletteFor(theme.Dark))
}

func testThemes(t *testing.T) *theme.Store {
	return theme.NewStore(filepath.Join(t.TempDir(), "theme.yaml"), "dark")
}

// stubClipboard records what would have been copied
func stubClipboard(t *testing.T) *string {
	t.Helper()
	var copied string
	prev := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })
	return &copied
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s one rune at a time
func typeText(m tea.Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// runCmd executes cmd, expanding batches. Commands that do not finish
// quickly (timers) are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// pump runs cmd and feeds the resulting messages back into m until nothing
// is left. Spinner ticks are skipped. Unless feedAll is set, status, view
// switch and quit messages are collected instead of fed back.
func pump(t *testing.T, m tea.Model, cmd tea.Cmd, feedAll bool) []tea.Msg {
	t.Helper()

	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 200, "command loop does not settle")
		next := queue[0]
		queue = queue[1:]

		for _, msg := range runCmd(next) {
			switch msg.(type) {
			case spinner.TickMsg:
				continue
			case tea.QuitMsg:
				out = append(out, msg)
				continue
			case StatusMsg, SwitchViewMsg:
				out = append(out, msg)
				if !feedAll {
					continue
				}
			}
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
	return out
}

func statuses(msgs []tea.Msg) []string {
	var out []string
	for _, msg := range msgs {
		if s, ok := msg.(StatusMsg); ok {
			out = append(out, string(s))
		}
	}
	return out
}
