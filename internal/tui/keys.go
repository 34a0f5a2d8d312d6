package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add            key.Binding
	Edit           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	ToggleAll      key.Binding
	ClearCompleted key.Binding
	NextFilter     key.Binding
	FilterAll      key.Binding
	FilterActive   key.Binding
	FilterDone     key.Binding
	Dismiss        key.Binding
	Reload         key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:           key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ToggleAll:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		ClearCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		NextFilter:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
		FilterAll:      key.NewBinding(key.WithKeys("1")),
		FilterActive:   key.NewBinding(key.WithKeys("2")),
		FilterDone:     key.NewBinding(key.WithKeys("3")),
		Dismiss:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		Reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.NextFilter, k.Help, k.Quit}
}

func (k keyMap) full() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.ToggleAll, k.ClearCompleted, k.Dismiss},
		{k.NextFilter, k.Reload, k.Help, k.Quit},
	}
}

// blur keys leave the inline editor, which submits it.
var blurKeys = key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"))
