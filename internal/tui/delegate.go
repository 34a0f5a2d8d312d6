package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// listItem adapts a todo to bubbles/list.Item.
type listItem struct {
	todo    model.Todo
	busy    bool
	pending bool
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// rowState is shared between the model and the delegate so rows can show
// the spinner frame and the inline editor.
type rowState struct {
	spinner   string
	editingID int
	editView  string
}

type itemDelegate struct {
	rows *rowState
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if it.todo.Persisted() && d.rows.editingID == it.todo.ID {
		text = d.rows.editView
	}

	suffix := ""
	switch {
	case it.pending:
		suffix = " " + pendingStyle.Render(d.rows.spinner+" saving")
	case it.busy:
		suffix = " " + pendingStyle.Render(d.rows.spinner)
		box = mutedStyle.Render(box)
	}
	fmt.Fprint(w, prefix+box+" "+text+suffix)
}

func toItems(todos []model.Todo, pending model.Pending, loading model.IDSet) []list.Item {
	out := make([]list.Item, 0, len(todos)+1)
	for _, t := range todos {
		out = append(out, listItem{todo: t, busy: loading.Has(t.ID)})
	}
	if t, ok := pending.Get(); ok {
		out = append(out, listItem{todo: t, pending: true})
	}
	return out
}
