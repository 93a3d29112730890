package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the root list.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Split    key.Binding
	Ignore   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Split: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "split"),
		),
		Ignore: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "ignore"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// hints returns the bindings shown in the help bar.
func (k keyMap) hints() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Split, k.Ignore, k.Quit}
}
