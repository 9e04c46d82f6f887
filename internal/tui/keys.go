package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings used while browsing the flame graph.
type keyMap struct {
	Quit    key.Binding
	Freeze  key.Binding
	Down    key.Binding
	Up      key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Search  key.Binding
	Reset   key.Binding
	Info    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Freeze:  key.NewBinding(key.WithKeys("f", " "), key.WithHelp("f/space", "freeze")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "deeper")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "shallower")),
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev frame")),
		Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next frame")),
		ZoomIn:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "zoom")),
		ZoomOut: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Info:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "info")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Freeze, k.Down, k.Left, k.ZoomIn, k.ZoomOut, k.Search, k.Reset, k.Info}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.Search},
		{k.Freeze, k.Reset, k.Info, k.Quit},
	}
}

// searchKeyMap is active while the thread search overlay is open. Any
// other printable key is typed into the query.
type searchKeyMap struct {
	Cancel    key.Binding
	Confirm   key.Binding
	Up        key.Binding
	Down      key.Binding
	Backspace key.Binding
	Quit      key.Binding
}

func defaultSearchKeyMap() searchKeyMap {
	return searchKeyMap{
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓", "navigate")),
		Down:      key.NewBinding(key.WithKeys("down")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Confirm, k.Up}
}

func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
