package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings of the download manager
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Start          key.Binding
	StartNext      key.Binding
	Cancel         key.Binding
	Scan           key.Binding
	RemoveFinished key.Binding
	AddForm        key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	Submit         key.Binding
	Back           key.Binding
	Confirm        key.Binding
	Decline        key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the stock key bindings
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
		Start: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "download"),
		),
		StartNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next pending"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel"),
		),
		Scan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "scan missing"),
		),
		RemoveFinished: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear finished"),
		),
		AddForm: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add sound"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add to queue"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "download catalog"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "skip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
