package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	SwitchPane  key.Binding
	Open        key.Binding
	PlayPause   key.Binding
	Next        key.Binding
	Previous    key.Binding
	Select      key.Binding
	Target      key.Binding
	Add         key.Binding
	Remove      key.Binding
	NewPlaylist key.Binding
	Delete      key.Binding
	DeleteAll   key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pane")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/play")),
		PlayPause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Previous:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		Select:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "make current")),
		Target:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add target")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to target")),
		Remove:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove track")),
		NewPlaylist: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new playlist")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete playlist")),
		DeleteAll:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.PlayPause, k.Next, k.Previous, k.Add, k.NewPlaylist, k.Quit}
}

// FullHelp groups every binding by concern.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.SwitchPane, k.Open},
		{k.PlayPause, k.Next, k.Previous, k.Select},
		{k.Target, k.Add, k.Remove, k.NewPlaylist, k.Delete, k.DeleteAll},
		{k.Quit},
	}
}
