package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap describes the bindings for the footer help. Key handling itself
// lives in the input modes.
type keyMap struct {
	Focus    key.Binding
	Query    key.Binding
	Navigate key.Binding
	Select   key.Binding
	Next     key.Binding
	Retry    key.Binding
	ViewMode key.Binding
	Play     key.Binding
	Details  key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "pane")),
		Query:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Navigate: key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("↑/↓", "move")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		ViewMode: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "list/tile")),
		Play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Details:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear recent")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Query, k.Select, k.Next, k.ViewMode, k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Query, k.Navigate, k.Select},
		{k.Next, k.Retry, k.ViewMode},
		{k.Play, k.Details, k.Clear},
		{k.Help, k.Quit},
	}
}

// queryKeyMap is shown while the query is being edited
type queryKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

func newQueryKeyMap() queryKeyMap {
	return queryKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
	}
}

func (k queryKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Submit, k.Cancel} }

func (k queryKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
