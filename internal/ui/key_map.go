package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the vim-style bindings shared by every view.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      binding("up", "↑/k", "up", "k"),
		down:    binding("down", "↓/j", "down", "j"),
		enter:   binding("select", "enter", "enter"),
		back:    binding("back", "esc", "esc"),
		yes:     binding("yes", "y", "y"),
		no:      binding("no", "n", "n"),
		restart: binding("another playlist", "r", "r"),
		quit:    binding("quit", "q", "q", "ctrl+c"),
	}
}

func binding(help, label string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help))
}

// ShortHelp keeps the footer to the one binding that always applies; the
// views print their own contextual hints.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.restart, k.quit},
	}
}
