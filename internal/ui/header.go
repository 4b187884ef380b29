package ui

import (
	"fmt"
	"strings"
)

// renderMain renders the full UI: header, command bar, content, footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCatalog:
		return m.renderCatalog()
	case ViewDetail:
		return m.renderDetail()
	case ViewCart:
		return m.renderCart()
	case ViewAuth:
		return m.renderAuth()
	case ViewPublish:
		return m.renderPublish()
	default:
		return ""
	}
}

func (m Model) renderHeader() string {
	left := m.styles.Logo.Render(" STOREFRONT ")

	who := "guest"
	if m.sessSnap.Authenticated && m.sessSnap.User != nil {
		who = m.sessSnap.User.Name
		if who == "" {
			who = m.sessSnap.User.Email
		}
	}
	middle := m.styles.MutedText.Render("  " + who)

	badge := ""
	if m.cartSnap.TotalItems > 0 {
		badge = "  " + m.styles.Badge.Render(fmt.Sprintf("🛒 %d · %s", m.cartSnap.TotalItems, formatPrice(m.cartSnap.TotalPrice)))
	}

	return m.styles.Header.Render(left + middle + badge)
}

func (m Model) renderCommandBar() string {
	var hints []string
	switch m.currentView {
	case ViewCatalog:
		hints = []string{"↑↓ move", "←→ page", "enter detail", "a add", "/ filter", "x clear", "c cart", "s sign in", "P publish", "? help"}
	case ViewDetail:
		hints = []string{"a add to cart", "e edit", "D delete", "esc back"}
	case ViewCart:
		hints = []string{"↑↓ move", "+/- quantity", "d remove", "X empty", "esc back"}
	case ViewAuth:
		hints = []string{"tab next field", "enter submit", "ctrl+t sign up/in", "esc cancel"}
	case ViewPublish:
		hints = []string{"tab next field", "ctrl+p category", "enter submit", "esc cancel"}
	}
	return m.styles.Footer.Render(strings.Join(hints, " · "))
}

func (m Model) renderFooter() string {
	if m.flash.level == flashNone {
		return ""
	}
	switch m.flash.level {
	case flashSuccess:
		return m.styles.SuccessText.Render(m.flash.text)
	case flashWarning:
		return m.styles.WarningText.Render(m.flash.text)
	default:
		return m.styles.DangerText.Render(m.flash.text)
	}
}

func (m Model) renderAuth() string {
	f := m.authForm
	var b strings.Builder

	if f.signup {
		b.WriteString(m.styles.AccentText.Render("Create an account"))
	} else {
		b.WriteString(m.styles.AccentText.Render("Sign in"))
	}
	b.WriteString("\n\n")

	if f.signup {
		b.WriteString("  Name     " + f.inputs[authFieldName].View() + "\n")
	}
	b.WriteString("  Email    " + f.inputs[authFieldEmail].View() + "\n")
	b.WriteString("  Password " + f.inputs[authFieldPassword].View() + "\n")

	if f.busy {
		b.WriteString("\n" + m.spinner.View() + m.styles.MutedText.Render(" signing in..."))
	}
	if f.err != nil {
		b.WriteString("\n" + m.styles.DangerText.Render(truncate(f.err.Error(), 70)))
	}

	return m.styles.Focused.Render(b.String())
}

func (m Model) renderPublish() string {
	f := m.publishForm
	var b strings.Builder

	if f.editing != nil {
		b.WriteString(m.styles.AccentText.Render(fmt.Sprintf("Edit product #%d", f.editing.ID)))
	} else {
		b.WriteString(m.styles.AccentText.Render("Publish a product"))
	}
	b.WriteString("\n\n")

	labels := [4]string{"Title      ", "Price      ", "Description", "Image URL  "}
	for i := range f.inputs {
		b.WriteString("  " + labels[i] + " " + f.inputs[i].View() + "\n")
	}

	catName := "(none loaded)"
	if cat, ok := f.category(); ok {
		catName = cat.Name
	}
	b.WriteString("  Category    " + m.styles.WarningText.Render(catName) + m.styles.MutedText.Render("  (ctrl+p to change)") + "\n")

	if f.busy {
		b.WriteString("\n" + m.spinner.View() + m.styles.MutedText.Render(" saving..."))
	}
	if f.err != nil {
		b.WriteString("\n" + m.styles.DangerText.Render(truncate(f.err.Error(), 70)))
	}

	return m.styles.Focused.Render(b.String())
}

func (m Model) renderHelp() string {
	type row struct{ key, desc string }
	sections := []struct {
		title string
		rows  []row
	}{
		{"Global", []row{
			{"q / ctrl+c", "Quit"},
			{"?", "Toggle this help"},
			{"T", "Cycle theme"},
			{"b / esc", "Back to catalog"},
			{"c", "Open or close the cart"},
			{"s", "Sign in or out"},
			{"P", "Publish a product"},
		}},
		{"Catalog", []row{
			{"↑/k ↓/j", "Move selection"},
			{"←/p →/n", "Previous / next page"},
			{"enter", "Product detail"},
			{"a", "Add selection to cart"},
			{"/", "Edit filters"},
			{"x", "Clear filters"},
			{"r", "Refresh"},
		}},
		{"Detail", []row{
			{"a / enter", "Add to cart"},
			{"e", "Edit (signed in)"},
			{"D", "Delete (signed in)"},
		}},
		{"Cart", []row{
			{"+ / -", "Change quantity"},
			{"d", "Remove line"},
			{"X", "Empty cart"},
		}},
	}

	var b strings.Builder
	b.WriteString(m.styles.Logo.Render(" STOREFRONT "))
	b.WriteString(m.styles.MutedText.Render("  keyboard reference (any key to close)"))
	b.WriteString("\n\n")
	for _, sec := range sections {
		b.WriteString(m.styles.AccentText.Render(sec.title))
		b.WriteString("\n")
		for _, r := range sec.rows {
			b.WriteString("  " + padRight(r.key, 12) + m.styles.MutedText.Render(r.desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
