package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the non-twist bindings. Twist letters are handled directly:
// upper case turns clockwise, lower case anticlockwise.
type keyMap struct {
	Undo     key.Binding
	Redo     key.Binding
	Shuffle  key.Binding
	Reset    key.Binding
	Solve    key.Binding
	Pause    key.Binding
	Notation key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "backspace"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "redo"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "shuffle"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Solve: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "solve"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Notation: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "wca/native"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Shuffle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Undo, k.Redo, k.Shuffle, k.Reset},
		{k.Solve, k.Pause, k.Notation},
		{k.Help, k.Quit},
	}
}
