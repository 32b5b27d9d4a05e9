package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains the board's keyboard shortcuts
type KeyMap struct {
	AddLog   key.Binding
	Bump     key.Binding
	Cancel   key.Binding
	Complete key.Binding
	Confirm  key.Binding
	Delete   key.Binding
	Down     key.Binding
	Drop     key.Binding
	Filter   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Up       key.Binding
}

// NewKeyMap creates the default key bindings
func NewKeyMap() KeyMap {
	return KeyMap{
		AddLog: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "add log entry"),
		),
		Bump: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "progress +10"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "mark completed"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Drop: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "progress -10"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Bump, k.Drop, k.Complete, k.AddLog, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter},
		{k.Bump, k.Drop, k.Complete},
		{k.AddLog, k.Delete},
		{k.Help, k.Quit},
	}
}
