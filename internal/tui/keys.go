package tui

import "charm.land/bubbles/v2/key"

// KeyMap holds the bindings for the list and the detail modal.
type KeyMap struct {
	// List
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Search      key.Binding
	Toggle      key.Binding
	ToggleRange key.Binding
	ToggleAll   key.Binding
	Clear       key.Binding
	Open        key.Binding
	RowJSON     key.Binding
	RowCSV      key.Binding
	BulkJSON    key.Binding
	BulkCSV     key.Binding
	Quit        key.Binding

	// Detail
	Close       key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	Tab1        key.Binding
	Tab2        key.Binding
	Tab3        key.Binding
	PrevTable   key.Binding
	NextTable   key.Binding
	Matrix      key.Binding
	DetailJSON  key.Binding
	DetailCSV   key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Toggle:      key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select")),
		ToggleRange: key.NewBinding(key.WithKeys("shift+space"), key.WithHelp("shift+space", "select range")),
		ToggleAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		RowJSON:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "json")),
		RowCSV:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "csv")),
		BulkJSON:    key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "json zip")),
		BulkCSV:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "csv zip")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Close:       key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
		NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Tab1:        key.NewBinding(key.WithKeys("1")),
		Tab2:        key.NewBinding(key.WithKeys("2")),
		Tab3:        key.NewBinding(key.WithKeys("3")),
		PrevTable:   key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←/→", "table")),
		NextTable:   key.NewBinding(key.WithKeys("right", "]")),
		Matrix:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "list/matrix")),
		DetailJSON:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "json")),
		DetailCSV:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "csv")),
		ScrollLeft:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h/l", "pan")),
		ScrollRight: key.NewBinding(key.WithKeys("l")),
	}
}

// ListHelp returns the bindings shown under the table list.
func (k KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Search, k.Toggle, k.ToggleRange, k.ToggleAll, k.Open, k.RowJSON, k.RowCSV, k.BulkJSON, k.BulkCSV, k.Quit}
}

// DetailHelp returns the bindings shown in the detail modal.
func (k KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTable, k.Matrix, k.ScrollLeft, k.DetailJSON, k.DetailCSV, k.Close}
}
