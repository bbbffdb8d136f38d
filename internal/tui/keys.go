package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Primary    key.Binding
	End        key.Binding
	Skip       key.Binding
	EndSession key.Binding
	Task       key.Binding
	AddMinute  key.Binding
	SubMinute  key.Binding
	AddTen     key.Binding
	SubTen     key.Binding
	Export     key.Binding
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	Tab4       key.Binding
	Tab        key.Binding
	Help       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Primary: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "start/pause/continue"),
	),
	End: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "end phase"),
	),
	Skip: key.NewBinding(
		key.WithKeys("k"),
		key.WithHelp("k", "skip break"),
	),
	EndSession: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "end session"),
	),
	Task: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "task"),
	),
	AddMinute: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "+1m"),
	),
	SubMinute: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "-1m"),
	),
	AddTen: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "+10s"),
	),
	SubTen: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "-10s"),
	),
	Export: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "timer"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "history"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "stats"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Primary, k.End, k.Task, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Primary, k.End, k.Skip, k.EndSession},
		{k.AddMinute, k.SubMinute, k.AddTen, k.SubTen},
		{k.Task, k.Export, k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
