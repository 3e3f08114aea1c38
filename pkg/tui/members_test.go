package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/memberdesk/pkg/store"
)

func newTestList(t *testing.T, s store.Store, pageSize int) *MemberListModel {
	t.Helper()
	m := NewMemberListModel(context.Background(), s, pageSize, testStyles())
	m.SetSize(120, 40)
	pump(t, m, m.Init(), false)
	return m
}

func TestMemberList_FirstPage(t *testing.T) {
	m := newTestList(t, newTestStore(t, 25), 10)

	assert.Equal(t, 10, m.acc.Len())
	assert.Equal(t, 25, m.acc.State().Total)
	assert.False(t, m.acc.IsLoading())
	assert.True(t, m.acc.CanLoadMore())
	assert.Equal(t, "m01@example.com", m.Selected().Email)

	view := m.View()
	assert.Contains(t, view, "Members (10 of 25)")
	assert.Contains(t, view, "15 more below")
}

func TestMemberList_LoadMoreAtLastRow(t *testing.T) {
	m := newTestList(t, newTestStore(t, 25), 10)

	// moving inside the loaded rows does not fetch
	_, cmd := m.Update(key("down"))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.cursor)

	_, cmd = m.Update(key("end"))
	require.NotNil(t, cmd)
	assert.True(t, m.acc.IsLoadingMore())
	pump(t, m, cmd, false)
	assert.Equal(t, 20, m.acc.Len())
	assert.Equal(t, 9, m.cursor)

	_, cmd = m.Update(key("end"))
	pump(t, m, cmd, false)
	assert.Equal(t, 25, m.acc.Len())
	assert.False(t, m.acc.CanLoadMore())
	assert.Equal(t, "m25@example.com", m.acc.Items()[24].Email)

	_, cmd = m.Update(key("end"))
	assert.Nil(t, cmd)
	assert.Equal(t, 24, m.cursor)
	assert.Contains(t, m.View(), "all members loaded")
}

func TestMemberList_StalePageIsDropped(t *testing.T) {
	m := newTestList(t, newTestStore(t, 5), 10)

	m.Update(membersPageMsg{gen: m.gen - 1, members: nil, total: 0})

	assert.Equal(t, 5, m.acc.Len())
	assert.Equal(t, 5, m.acc.State().Total)
}

func TestMemberList_Filter(t *testing.T) {
	m := newTestList(t, newTestStore(t, 25), 10)

	m.Update(key("/"))
	require.True(t, m.searchBar.Active())
	typeText(m, "m2")
	_, cmd := m.Update(key("enter"))
	pump(t, m, cmd, false)

	assert.False(t, m.searchBar.Active())
	assert.Equal(t, "m2", m.query)
	assert.Equal(t, 6, m.acc.Len())
	assert.Equal(t, 6, m.acc.State().Total)
	assert.Contains(t, m.View(), `filter: "m2"`)

	_, cmd = m.Update(key("esc"))
	pump(t, m, cmd, false)
	assert.Equal(t, "", m.query)
	assert.Equal(t, 10, m.acc.Len())
}

func TestMemberList_FilterWithoutMatches(t *testing.T) {
	m := newTestList(t, newTestStore(t, 3), 10)

	pump(t, m, m.SetQuery("nobody"), false)

	assert.Equal(t, 0, m.acc.Len())
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), `No members match "nobody"`)
}

func TestMemberList_Empty(t *testing.T) {
	m := newTestList(t, newTestStore(t, 0), 10)

	assert.Contains(t, m.View(), "No members yet")
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
}

func TestMemberList_OpenEditor(t *testing.T) {
	m := newTestList(t, newTestStore(t, 3), 10)
	m.Update(key("down"))

	_, cmd := m.Update(key("enter"))
	msgs := runCmd(cmd)

	require.Len(t, msgs, 1)
	sw, ok := msgs[0].(SwitchViewMsg)
	require.True(t, ok)
	assert.Equal(t, profileEditorView, sw.view)
	assert.Equal(t, "m02@example.com", sw.member.Email)
}

func TestMemberList_DeleteWithConfirmation(t *testing.T) {
	s := newTestStore(t, 3)
	m := newTestList(t, s, 10)

	m.Update(key("d"))
	require.True(t, m.confirm.Active())
	assert.Contains(t, m.View(), "Delete Member 01?")

	_, cmd := m.Update(key("n"))
	assert.Nil(t, cmd)
	assert.False(t, m.confirm.Active())
	assert.Equal(t, 3, m.acc.Len())

	m.Update(key("d"))
	_, cmd = m.Update(key("y"))
	msgs := pump(t, m, cmd, false)

	assert.Contains(t, statuses(msgs), "Deleted Member 01")
	assert.Equal(t, 2, m.acc.Len())
	page, err := s.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestMemberList_CopyEmail(t *testing.T) {
	copied := stubClipboard(t)
	m := newTestList(t, newTestStore(t, 2), 10)

	_, cmd := m.Update(key("y"))
	msgs := runCmd(cmd)

	assert.Equal(t, "m01@example.com", *copied)
	assert.Equal(t, []string{"m01@example.com → clipboard"}, statuses(msgs))
}

func TestMemberList_LoadFailure(t *testing.T) {
	s := &failingStore{Store: newTestStore(t, 2), failList: true}
	m := NewMemberListModel(context.Background(), s, 10, testStyles())

	msgs := pump(t, m, m.Init(), false)

	assert.False(t, m.acc.IsLoading())
	assert.ErrorIs(t, m.err, errBackend)
	require.Len(t, statuses(msgs), 1)
	assert.Contains(t, statuses(msgs)[0], "Failed to load members")
	assert.Contains(t, m.View(), "Could not load members")

	// a reload after recovery replaces the error
	s.failList = false
	pump(t, m, m.Reload(), false)
	assert.NoError(t, m.err)
	assert.Equal(t, 2, m.acc.Len())
}

func TestMemberList_ReloadKeepsRowsUntilAnswer(t *testing.T) {
	m := newTestList(t, newTestStore(t, 3), 10)

	_, cmd := m.Update(key("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.acc.IsLoadingFirstPage())
	assert.Equal(t, 3, m.acc.Len())

	pump(t, m, cmd, false)
	assert.False(t, m.acc.IsLoading())
	assert.Equal(t, 3, m.acc.Len())
}

func TestMemberList_Quit(t *testing.T) {
	m := newTestList(t, newTestStore(t, 1), 10)
	_, cmd := m.Update(key("q"))
	assert.Equal(t, []tea.Msg{tea.QuitMsg{}}, runCmd(cmd))
}
