package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Apply  key.Binding
	Diff   key.Binding
	Export key.Binding
	Save   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     newBinding([]string{"up", "k"}, "up", "↑/k"),
		Down:   newBinding([]string{"down", "j"}, "down", "↓/j"),
		Toggle: newBinding([]string{" "}, "keep/discard", "space"),
		Apply:  newBinding([]string{"a"}, "apply kept", "a"),
		Diff:   newBinding([]string{"d"}, "diff", "d"),
		Export: newBinding([]string{"w"}, "export", "w"),
		Save:   newBinding([]string{"s"}, "save decisions", "s"),
		Back:   newBinding([]string{"esc"}, "back", "esc"),
		Quit:   newBinding([]string{"q", "ctrl+c"}, "quit", "q"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Apply, k.Diff, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Apply, k.Diff, k.Export, k.Save},
		{k.Back, k.Quit},
	}
}
