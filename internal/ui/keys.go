package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// View switching
	ViewCatalog key.Binding
	ViewCart    key.Binding
	SignIn      key.Binding

	// Catalog
	NextPage   key.Binding
	PrevPage   key.Binding
	Filter     key.Binding
	ClearQuery key.Binding
	Refresh    key.Binding
	Open       key.Binding
	AddToCart  key.Binding
	Publish    key.Binding

	// Detail
	Edit   key.Binding
	Delete key.Binding

	// Cart
	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Empty    key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Forms
	NextField key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to catalog"),
		),

		ViewCatalog: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Browse catalog"),
		),
		ViewCart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cart"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sign in / out"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "Previous page"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filters"),
		),
		ClearQuery: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Product detail"),
		),
		AddToCart: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add to cart"),
		),
		Publish: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Publish product"),
		),

		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit product"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Delete product"),
		),

		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Fewer"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "backspace"),
			key.WithHelp("d", "Remove line"),
		),
		Empty: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Empty cart"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}
