package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Digit       key.Binding
	Acknowledge key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Digit: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("0-9", "answer"),
	),
	Acknowledge: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "memorized / continue"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Digit, k.Acknowledge, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
