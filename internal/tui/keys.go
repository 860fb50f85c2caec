package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the list view keybindings. It implements help.KeyMap.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	All        key.Binding
	Completed  key.Binding
	Pending    key.Binding
	Toggle     key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default list keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next filter"),
		),
		All: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		Completed: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "completed"),
		),
		Pending: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "pending"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.NextFilter, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.All, k.Completed, k.Pending},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Reload, k.Help, k.Quit},
	}
}
