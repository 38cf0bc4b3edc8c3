package internal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Reset    key.Binding
	Switch   key.Binding
	Settings key.Binding
	Log      key.Binding
	Clear    key.Binding
	ClearAll key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Switch:   key.NewBinding(key.WithKeys("s", "tab"), key.WithHelp("s", "switch phase")),
		Settings: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit lengths")),
		Log:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "today's log")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear today")),
		ClearAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Switch, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Switch},
		{k.Settings, k.Log},
		{k.Clear, k.ClearAll},
		{k.Help, k.Quit},
	}
}
