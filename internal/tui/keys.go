package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up        key.Binding // k - move up
	Down      key.Binding // j - move down
	Top       key.Binding // g - jump to top
	Bottom    key.Binding // G - jump to bottom
	Select    key.Binding // Enter - details
	Activate  key.Binding // s - make active
	Toggle    key.Binding // x - enable/disable
	Add       key.Binding // a - add source
	Edit      key.Binding // e - edit source
	Delete    key.Binding // d - delete source
	Theme     key.Binding // t - cycle theme
	Help      key.Binding // ? - help
	Quit      key.Binding // q - quit
	Cancel    key.Binding // Esc - back
	Confirm   key.Binding // Enter/y - confirm
	Undo      key.Binding // u - undo import
	Settings  key.Binding // s - go to settings after import
	HomeKey   key.Binding // h - go home after import
	NextField key.Binding // Tab
	PrevField key.Binding // Shift+Tab
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Activate:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "use")),
		Toggle:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "enable/disable")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm:   key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter/y", "confirm")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		HomeKey:   key.NewBinding(key.WithKeys("h", "esc", "q"), key.WithHelp("h", "home")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	}
}

// ShortHelp returns the bindings shown in the main status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Activate, k.Add, k.Edit, k.Help, k.Quit}
}

// FullHelp returns the bindings shown on the help page
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Select},
		{k.Activate, k.Toggle, k.Add, k.Edit, k.Delete},
		{k.Theme, k.Help, k.Cancel, k.Quit},
	}
}

// importConfirmKeys is the help for the import confirmation step.
type importConfirmKeys struct{ k KeyMap }

func (i importConfirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{i.k.Confirm, key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel"))}
}

func (i importConfirmKeys) FullHelp() [][]key.Binding { return [][]key.Binding{i.ShortHelp()} }

// importDoneKeys is the help for the import success step.
type importDoneKeys struct{ k KeyMap }

func (i importDoneKeys) ShortHelp() []key.Binding {
	return []key.Binding{i.k.Settings, i.k.Undo, i.k.HomeKey}
}

func (i importDoneKeys) FullHelp() [][]key.Binding { return [][]key.Binding{i.ShortHelp()} }
