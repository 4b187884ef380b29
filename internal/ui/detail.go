package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcarrillo/storefront/internal/cart"
)

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.AddToCart), key.Matches(msg, keys.Open):
		if m.detail.ID == 0 {
			return m, nil
		}
		m.cart.AddItem(cart.ItemFromProduct(m.detail))
		m.resnapshot()
		cmd := m.setFlash(flashSuccess, "Added "+truncate(m.detail.Title, 40)+" to cart")
		return m, cmd

	case key.Matches(msg, keys.Edit):
		if !m.sessSnap.Authenticated {
			cmd := m.setFlash(flashWarning, "Sign in to edit products")
			return m, cmd
		}
		if m.detail.ID == 0 {
			return m, nil
		}
		product := m.detail
		m.publishForm.reset(&product)
		m.currentView = ViewPublish
		cmd := m.publishForm.focusFirst()
		return m, cmd

	case key.Matches(msg, keys.Delete):
		if !m.sessSnap.Authenticated {
			cmd := m.setFlash(flashWarning, "Sign in to delete products")
			return m, cmd
		}
		if m.detail.ID == 0 {
			return m, nil
		}
		return m, deleteProductCmd(m.ctx, m.catalog, m.detail.ID)
	}

	return m, nil
}

func (m Model) renderDetail() string {
	var b strings.Builder

	if m.detailErr != nil {
		b.WriteString(m.styles.DangerText.Render("Could not load product: " + m.detailErr.Error()))
		b.WriteString("\n")
	}

	p := m.detail
	if p.ID == 0 {
		b.WriteString(m.styles.MutedText.Render("No product selected."))
		return b.String()
	}

	b.WriteString(m.styles.AccentText.Render(p.Title))
	b.WriteString("\n\n")
	b.WriteString(m.styles.SuccessText.Render(formatPrice(p.Price)))
	if p.Category.Name != "" {
		b.WriteString(m.styles.MutedText.Render("   in " + p.Category.Name))
	}
	b.WriteString("\n\n")

	if p.Description != "" {
		b.WriteString(m.styles.Text.Render(wrap(p.Description, maxInt(m.width-8, 32))))
		b.WriteString("\n\n")
	}

	if len(p.Images) > 0 {
		b.WriteString(m.styles.MutedText.Render("Images:"))
		b.WriteString("\n")
		for _, img := range p.Images {
			b.WriteString(m.styles.MutedText.Render("  " + truncate(img, maxInt(m.width-6, 32))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.MutedText.Render(fmt.Sprintf("#%d · listed %s", p.ID, truncate(p.CreationAt, 10))))

	return m.styles.Panel.Render(b.String())
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	rows := len(m.cartSnap.Items)

	switch {
	case key.Matches(msg, keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.selectedRow < rows-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, keys.Increase):
		if item, ok := m.selectedCartItem(); ok {
			m.cart.UpdateQuantity(item.ID, item.Quantity+1)
			m.resnapshot()
		}
		return m, nil

	case key.Matches(msg, keys.Decrease):
		if item, ok := m.selectedCartItem(); ok {
			m.cart.UpdateQuantity(item.ID, item.Quantity-1)
			m.resnapshot()
		}
		return m, nil

	case key.Matches(msg, keys.Remove):
		if item, ok := m.selectedCartItem(); ok {
			m.cart.RemoveItem(item.ID)
			m.resnapshot()
		}
		return m, nil

	case key.Matches(msg, keys.Empty):
		if rows > 0 {
			m.cart.Clear()
			m.resnapshot()
			cmd := m.setFlash(flashSuccess, "Cart emptied")
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) selectedCartItem() (cart.LineItem, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.cartSnap.Items) {
		return cart.LineItem{}, false
	}
	return m.cartSnap.Items[m.selectedRow], true
}

func (m Model) renderCart() string {
	var b strings.Builder

	items := m.cartSnap.Items
	if len(items) == 0 {
		b.WriteString(m.styles.MutedText.Render("Your cart is empty."))
		return b.String()
	}

	titleWidth := maxInt(m.width-40, 20)
	header := fmt.Sprintf("  %s %10s  %4s %12s", padRight("ITEM", titleWidth), "PRICE", "QTY", "SUBTOTAL")
	b.WriteString(m.styles.MutedText.Render(header))
	b.WriteString("\n")

	for i, item := range items {
		line := fmt.Sprintf("  %s %10s  %4d %12s",
			padRight(truncate(item.Title, titleWidth), titleWidth),
			formatPrice(item.Price),
			item.Quantity,
			formatPrice(item.Price*float64(item.Quantity)),
		)
		if i == m.selectedRow {
			line = m.styles.Selected.Render("▸" + line[1:])
		} else {
			line = m.styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	totals := fmt.Sprintf("%d item(s) · total %s", m.cartSnap.TotalItems, formatPrice(m.cartSnap.TotalPrice))
	b.WriteString(m.styles.SuccessText.Render(totals))

	return b.String()
}
