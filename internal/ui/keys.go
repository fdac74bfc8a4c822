package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	Favorites  key.Binding
	Search     key.Binding

	// Search view
	Submit       key.Binding
	ToggleSource key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// Item actions
	AddFavorite    key.Binding
	RemoveFavorite key.Binding
	OpenLink       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Input/results focus"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Favorites: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Favorites"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Focus search"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit search"),
		),
		ToggleSource: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Switch API source"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("]/→", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("[/←", "Previous page"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Show details"),
		),

		AddFavorite: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add to favorites"),
		),
		RemoveFavorite: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Remove favorite"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open link in browser"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped the way the help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.ToggleSource, k.NextPage, k.PrevPage, k.Search, k.Tab},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open},
		{k.AddFavorite, k.RemoveFavorite, k.OpenLink},
		{k.Favorites, k.Escape, k.CycleTheme, k.Help, k.Quit},
	}
}
