package tui

import "github.com/charmbracelet/bubbles/key"

// treeKeyMap defines key bindings while browsing the tree
type treeKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Select   key.Binding
	Read     key.Binding
	ReadAll  key.Binding
	Write    key.Binding
	Enum     key.Binding
	Copy     key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k treeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Read, k.Write, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k treeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse},
		{k.Select, k.Enum, k.Copy, k.Search},
		{k.Read, k.ReadAll, k.Write},
		{k.Help, k.Quit},
	}
}

// editKeyMap defines key bindings while the value editor has focus
type editKeyMap struct {
	Submit key.Binding
	Enum   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Enum, k.Cancel, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Enum, k.Cancel, k.Quit},
	}
}

// searchKeyMap defines key bindings while the search prompt is open
type searchKeyMap struct {
	Jump   key.Binding
	Next   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Next, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Next, k.Cancel},
	}
}

func newTreeKeyMap() treeKeyMap {
	return treeKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select/edit"),
		),
		Read: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "read"),
		),
		ReadAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "read all"),
		),
		Write: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write"),
		),
		Enum: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "next enum"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy value"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
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

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Enum: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next enum"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave editor"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func newSearchKeyMap() searchKeyMap {
	return searchKeyMap{
		Jump: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next match"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
