package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Insert key.Binding
	Delete key.Binding
	Up     key.Binding
	Down   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Insert, k.Up, k.Down, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Insert, k.Delete},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Insert: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new line")),
		Delete: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete empty line")),
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous line")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next line")),
		Help:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}
