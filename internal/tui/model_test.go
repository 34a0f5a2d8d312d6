package tui

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/api/apitest"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
	"github.com/Makepad-fr/tada/internal/store"
)

const userID = 7

func todo(id int, title string, completed bool) model.Todo {
	return model.Todo{ID: id, UserID: userID, Title: title, Completed: completed}
}

func newModel(t *testing.T, todos ...model.Todo) (Model, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(todos...)
	t.Cleanup(srv.Close)
	c, err := api.NewHTTPClient(srv.URL, api.ClientOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	st := store.New(c, store.Options{UserID: userID, Notifier: notify.New(time.Hour)})

	m := New(context.Background(), st)
	// A blinking cursor schedules timed commands; keep it still in tests.
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.field.Cursor.SetMode(cursor.CursorStatic)
	m = send(t, m, m.load()())
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, srv
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// send feeds msg and runs the store command it returns, if any.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch res := cmd().(type) {
	case loadedMsg, opDoneMsg, submittedMsg, editedMsg:
		return update(m, res)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

func TestInitialView(t *testing.T) {
	m, _ := newModel(t, todo(1, "Buy milk", false), todo(2, "Walk dog", true))

	v := m.View()
	assert.Contains(t, v, "Buy milk")
	assert.Contains(t, v, "Walk dog")
	assert.Contains(t, v, "1 item left")
	assert.Contains(t, v, "Clear completed (c)")
	assert.Contains(t, v, "user 7")
}

func TestEmptyListHidesFooter(t *testing.T) {
	m, _ := newModel(t)
	assert.NotContains(t, m.View(), "items left")
}

func TestToggleSelected(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))

	m = press(t, m, " ")

	assert.Equal(t, []model.Todo{todo(1, "A", true)}, m.snap.Todos)
	assert.Equal(t, []model.Todo{todo(1, "A", true)}, srv.Todos())
}

func TestAddTodo(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))

	m = press(t, m, "a", "B", "u", "y", "enter")

	assert.Equal(t, "", m.input.Value())
	require.Len(t, srv.Todos(), 2)
	assert.Equal(t, "Buy", m.snap.Todos[1].Title)
	assert.Contains(t, m.View(), "Buy")
}

func TestAddFailureKeepsInput(t *testing.T) {
	m, srv := newModel(t)
	srv.Fail(apitest.OpCreate)

	m = press(t, m, "a", "x", "enter")

	assert.Equal(t, "x", m.input.Value())
	assert.Empty(t, m.snap.Todos)
	assert.Contains(t, m.View(), notify.MsgAdd)
}

func TestAddEmptyTitle(t *testing.T) {
	m, srv := newModel(t)

	m = press(t, m, "a", " ", "enter")

	assert.Contains(t, m.View(), notify.MsgEmptyTitle)
	for _, r := range srv.Requests() {
		assert.NotEqual(t, "POST", r.Method)
	}
}

func TestDismissBanner(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, "a", "enter", "esc")
	require.Contains(t, m.View(), notify.MsgEmptyTitle)

	m = press(t, m, "x")
	assert.NotContains(t, m.View(), notify.MsgEmptyTitle)
}

func TestEditRename(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))

	m = press(t, m, "e")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "A", m.field.Value())

	m = press(t, m, "B", "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []model.Todo{todo(1, "AB", false)}, srv.Todos())
}

func TestEditEmptyDeletes(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false), todo(2, "B", false))

	m = press(t, m, "e", "ctrl+u", "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []model.Todo{todo(2, "B", false)}, srv.Todos())
	assert.Equal(t, []model.Todo{todo(2, "B", false)}, m.snap.Todos)
}

func TestEditUnchangedMakesNoRequest(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))
	before := len(srv.Requests())

	m = press(t, m, "e", "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, srv.Requests(), before)
}

func TestEditBlurSubmits(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))

	m = press(t, m, "e", "!", "tab")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "A!", srv.Todos()[0].Title)
}

func TestEditEscapeCancels(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))
	before := len(srv.Requests())

	m = press(t, m, "e", "Z", "esc")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, srv.Requests(), before)
	assert.Equal(t, "A", m.snap.Todos[0].Title)
}

func TestEditFailureStaysEditing(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))
	srv.FailID(1)

	m = press(t, m, "e", "B", "enter")

	assert.Equal(t, modeEdit, m.mode)
	assert.True(t, m.editor.Editing())
	assert.True(t, m.field.Focused())
	assert.Equal(t, "AB", m.field.Value())
	assert.Contains(t, m.View(), notify.MsgUpdate)
}

func TestFilterCycle(t *testing.T) {
	m, _ := newModel(t, todo(1, "open one", false), todo(2, "closed one", true))

	m = press(t, m, "tab")
	assert.Equal(t, model.Active, m.status)
	assert.Len(t, m.list.Items(), 1)

	m = press(t, m, "3")
	assert.Equal(t, model.Completed, m.status)
	assert.Len(t, m.list.Items(), 1)
	assert.Equal(t, "closed one", m.list.Items()[0].(listItem).todo.Title)

	m = press(t, m, "1")
	assert.Len(t, m.list.Items(), 2)
}

func TestToggleAllAndClearCompleted(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false), todo(2, "B", false))

	m = press(t, m, "t")
	assert.True(t, model.AllCompleted(m.snap.Todos))
	assert.Equal(t, 0, m.snap.Loading.Len())

	m = press(t, m, "c")
	assert.Empty(t, m.snap.Todos)
	assert.Empty(t, srv.Todos())
}

func TestClearCompletedDisabledWithoutCompleted(t *testing.T) {
	m, srv := newModel(t, todo(1, "A", false))
	before := len(srv.Requests())

	_, cmd := m.Update(keyMsg("c"))

	assert.Nil(t, cmd)
	assert.Len(t, srv.Requests(), before)
}

func TestPendingRowRendered(t *testing.T) {
	items := toItems([]model.Todo{todo(1, "A", false)}, model.PendingOf("B", userID), model.NewIDSet(1))
	require.Len(t, items, 2)
	assert.True(t, items[0].(listItem).busy)
	assert.True(t, items[1].(listItem).pending)
	assert.False(t, items[1].(listItem).todo.Persisted())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t, todo(1, "Buy milk", false))
	assert.NotContains(t, m.View(), "clear completed")

	m = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "clear completed")

	m = press(t, m, "?")
	assert.False(t, m.help.ShowAll)
}
