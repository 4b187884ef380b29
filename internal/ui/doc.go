// Package ui implements the storefront terminal interface with Bubble Tea.
//
// # Overview
//
// The UI is a single Bubble Tea model with five views: the catalog table,
// a product detail page, the cart, the sign-in/sign-up form, and the
// publish form for creating or editing products. All domain state lives
// in the catalog controller, the cart store, and the session store; the
// model only holds snapshots of them plus transient view state.
//
// # Data Flow
//
// Store mutations made by the UI (adding to the cart, changing a page)
// call straight into the stores. Asynchronous completions arrive on the
// Options.Updates channel, which the model converts into an updateMsg
// and answers by re-snapshotting every store. The UI never mutates a
// snapshot; it always goes through a store method and waits for the
// change to come back.
//
// # Key Handling
//
// Forms capture keystrokes before the global bindings, so typing "q"
// into a search field never quits the program. Outside a form, bindings
// are declared in keys.go with bubbles/key so the help view and the
// handlers cannot drift apart.
//
// # Theming
//
// Three built-in themes (Dracula, Nightfox, Slate) can be cycled with T;
// the choice persists through the prefs package.
package ui
