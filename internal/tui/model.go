// Package tui is the interactive Bubble Tea front end.
//
// Every store call runs inside a tea.Cmd; Update itself only reads
// snapshots, so a store change notification can never block the loop.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/editor"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// StoreChangedMsg tells the model to re-read the store.
type StoreChangedMsg struct{}

type loadedMsg struct{ err error }

type submittedMsg struct{ err error }

type editedMsg struct{ err error }

// opDoneMsg closes any fire-and-forget store call. Failures have
// already reached the banner.
type opDoneMsg struct{ err error }

// Model is the root Bubble Tea model.
type Model struct {
	ctx   context.Context
	store *store.Store

	snap   store.Snapshot
	status model.Status
	mode   mode

	list    list.Model
	input   textinput.Model // header: new todo title
	field   textinput.Model // inline editor field
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	editor  editor.Editor
	editing bool // an edit request is in flight
	rows    *rowState

	width, height int
}

// New builds the model. Run Init to load the list.
func New(ctx context.Context, st *store.Store) Model {
	rows := &rowState{}
	l := list.New(nil, itemDelegate{rows: rows}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("todo", "todos")

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "What needs to be done?"
	in.CharLimit = 200

	field := textinput.New()
	field.Prompt = ""
	field.Placeholder = "Empty todo will be deleted"
	field.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	m := Model{
		ctx:     ctx,
		store:   st,
		list:    l,
		input:   in,
		field:   field,
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeys(),
		rows:    rows,
		width:   80,
		height:  24,
	}
	m.refresh()
	return m
}

// Run starts the program and wires store notifications into it.
func Run(ctx context.Context, st *store.Store) error {
	p := tea.NewProgram(New(ctx, st), tea.WithAltScreen(), tea.WithContext(ctx))
	st.Subscribe(func() { go p.Send(StoreChangedMsg{}) })
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.rows.spinner = m.spinner.View()
		return m, cmd

	case StoreChangedMsg, loadedMsg, opDoneMsg:
		m.refresh()
		return m, nil

	case submittedMsg:
		m.refresh()
		if msg.err == nil {
			m.input.SetValue("")
		}
		if m.mode == modeAdd {
			return m, m.input.Focus()
		}
		return m, nil

	case editedMsg:
		m.editing = false
		if m.editor.Resolve(msg.err) == editor.Failed {
			m.editor.Refocus()
			m.refresh()
			return m, m.field.Focus()
		}
		m.leaveEdit()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		if next, cmd, handled := m.updateBrowse(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	todos := m.snap.Todos
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.resize()
		return m, m.input.Focus(), true

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		m.editor.Begin(t)
		m.field.SetValue(m.editor.Text())
		m.field.CursorEnd()
		m.mode = modeEdit
		m.rows.editingID = t.ID
		m.rows.editView = m.field.View()
		return m, m.field.Focus(), true

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok || m.snap.Loading.Has(t.ID) {
			return m, nil, true
		}
		return m, m.do(func(ctx context.Context) error {
			_, err := m.store.Toggle(ctx, t.ID)
			return err
		}), true

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok || m.snap.Loading.Has(t.ID) {
			return m, nil, true
		}
		return m, m.do(func(ctx context.Context) error { return m.store.DeleteOne(ctx, t.ID) }), true

	case key.Matches(msg, m.keys.ToggleAll):
		if len(todos) == 0 {
			return m, nil, true
		}
		return m, m.do(func(ctx context.Context) error {
			m.store.ToggleAll(ctx)
			return nil
		}), true

	case key.Matches(msg, m.keys.ClearCompleted):
		if !model.AnyCompleted(todos) {
			return m, nil, true
		}
		return m, m.do(func(ctx context.Context) error {
			m.store.DeleteCompleted(ctx)
			return nil
		}), true

	case key.Matches(msg, m.keys.NextFilter):
		m.setStatus(m.status.Next())
		return m, nil, true
	case key.Matches(msg, m.keys.FilterAll):
		m.setStatus(model.All)
		return m, nil, true
	case key.Matches(msg, m.keys.FilterActive):
		m.setStatus(model.Active)
		return m, nil, true
	case key.Matches(msg, m.keys.FilterDone):
		m.setStatus(model.Completed)
		return m, nil, true

	case key.Matches(msg, m.keys.Dismiss):
		return m, m.do(func(context.Context) error {
			m.store.Notifier().Dismiss()
			return nil
		}), true

	case key.Matches(msg, m.keys.Reload):
		return m, m.load(), true

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.resize()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	if m.snap.Submitting {
		return m, nil
	}
	if msg.String() == "enter" {
		raw := m.input.Value()
		m.input.Blur()
		return m, func() tea.Msg {
			_, err := m.store.Submit(m.ctx, raw)
			return submittedMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m, nil
	}
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case msg.String() == "esc":
		m.editor.Cancel()
		m.leaveEdit()
		return m, nil
	case msg.String() == "enter", key.Matches(msg, blurKeys):
		return m.submitEdit()
	}
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	m.editor.SetText(m.field.Value())
	m.rows.editView = m.field.View()
	return m, cmd
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	m.editor.SetText(m.field.Value())
	plan := m.editor.Plan()
	if plan.Action == editor.ActionNone {
		m.editor.Resolve(nil)
		m.leaveEdit()
		return m, nil
	}
	m.editing = true
	m.field.Blur()
	ops := m.store
	return m, func() tea.Msg {
		return editedMsg{err: editor.Execute(m.ctx, ops, plan)}
	}
}

func (m *Model) leaveEdit() {
	m.mode = modeBrowse
	m.field.Blur()
	m.field.SetValue("")
	m.rows.editingID = 0
	m.rows.editView = ""
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg { return loadedMsg{err: m.store.Load(m.ctx)} }
}

func (m Model) do(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return opDoneMsg{err: fn(ctx)} }
}

func (m *Model) setStatus(s model.Status) {
	m.status = s
	m.refresh()
}

func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	visible := model.Filter(m.snap.Todos, m.status)
	m.list.SetItems(toItems(visible, m.snap.Pending, m.snap.Loading))
	m.rows.spinner = m.spinner.View()
	if m.editor.Editing() {
		m.rows.editView = m.field.View()
	}
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok || it.pending {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m *Model) resize() {
	h := m.height - chromeHeight
	if m.mode == modeAdd {
		h -= 2
	}
	if m.help.ShowAll {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.input.Width = m.width - 10
	m.field.Width = m.width - 12
	m.help.Width = m.width - 4
}
