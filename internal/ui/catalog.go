package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/cart"
	"github.com/mcarrillo/storefront/internal/catalog"
)

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	rows := len(m.catSnap.Products)

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

	case key.Matches(msg, keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, keys.Bottom):
		if rows > 0 {
			m.selectedRow = rows - 1
		}
		return m, nil

	case key.Matches(msg, keys.NextPage):
		// A short page means the server ran out of products.
		if rows < m.catalog.PageSize() {
			return m, nil
		}
		cmd := m.setPageCmd(m.catSnap.Page + 1)
		return m, cmd

	case key.Matches(msg, keys.PrevPage):
		if m.catSnap.Page <= 1 {
			return m, nil
		}
		cmd := m.setPageCmd(m.catSnap.Page - 1)
		return m, cmd

	case key.Matches(msg, keys.Filter):
		m.filterActive = true
		cmd := m.filterForm.load(m.catSnap.Filters)
		return m, cmd

	case key.Matches(msg, keys.ClearQuery):
		if m.catSnap.Filters.IsZero() {
			return m, nil
		}
		m.selectedRow = 0
		c, ctx := m.catalog, m.ctx
		return m, func() tea.Msg {
			c.SetFilters(ctx, catalog.Filters{})
			return nil
		}

	case key.Matches(msg, keys.Refresh):
		return m, refreshCatalogCmd(m.ctx, m.catalog)

	case key.Matches(msg, keys.Open):
		sel, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		// Show the row we already have, then refresh it from the cache.
		m.detail = sel
		m.detailErr = nil
		m.currentView = ViewDetail
		return m, productCmd(m.ctx, m.catalog, sel.ID)

	case key.Matches(msg, keys.AddToCart):
		sel, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		m.cart.AddItem(cart.ItemFromProduct(sel))
		m.resnapshot()
		cmd := m.setFlash(flashSuccess, "Added "+truncate(sel.Title, 40)+" to cart")
		return m, cmd
	}

	return m, nil
}

func (m Model) selectedProduct() (api.Product, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.catSnap.Products) {
		return api.Product{}, false
	}
	return m.catSnap.Products[m.selectedRow], true
}

func (m *Model) setPageCmd(page int) tea.Cmd {
	m.selectedRow = 0
	c, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		c.SetPage(ctx, page)
		return nil
	}
}

// renderCatalog renders the product table with its filter and paging
// status line.
func (m Model) renderCatalog() string {
	var b strings.Builder

	b.WriteString(m.renderCatalogStatus())
	b.WriteString("\n\n")

	if m.filterActive {
		b.WriteString(m.renderFilterForm())
		b.WriteString("\n")
	}

	products := m.catSnap.Products
	if len(products) == 0 {
		switch {
		case m.catSnap.IsLoading():
			b.WriteString(m.styles.MutedText.Render("Fetching products..."))
		case m.catSnap.IsError():
			b.WriteString(m.styles.DangerText.Render("Could not load products."))
		default:
			b.WriteString(m.styles.MutedText.Render("No products match."))
		}
		return b.String()
	}

	titleWidth := maxInt(m.width-36, 20)
	header := fmt.Sprintf("  %-6s %s %10s  %s", "ID", padRight("TITLE", titleWidth), "PRICE", "CATEGORY")
	b.WriteString(m.styles.MutedText.Render(header))
	b.WriteString("\n")

	for i, p := range products {
		line := fmt.Sprintf("  %-6d %s %10s  %s",
			p.ID,
			padRight(truncate(p.Title, titleWidth), titleWidth),
			formatPrice(p.Price),
			truncate(p.Category.Name, 16),
		)
		if i == m.selectedRow {
			line = m.styles.Selected.Render("▸" + line[1:])
		} else {
			line = m.styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderCatalogStatus() string {
	parts := []string{
		m.styles.AccentText.Render(fmt.Sprintf("Page %d", m.catSnap.Page)),
	}

	if f := m.catSnap.Filters; !f.IsZero() {
		var labels []string
		if f.Title != "" {
			labels = append(labels, fmt.Sprintf("title~%q", f.Title))
		}
		if f.PriceMin > 0 {
			labels = append(labels, fmt.Sprintf("min %d", f.PriceMin))
		}
		if f.PriceMax > 0 {
			labels = append(labels, fmt.Sprintf("max %d", f.PriceMax))
		}
		parts = append(parts, m.styles.WarningText.Render("filters: "+strings.Join(labels, ", ")))
	}

	switch {
	case m.catSnap.IsLoading():
		parts = append(parts, m.spinner.View()+m.styles.MutedText.Render(" loading"))
	case m.catSnap.IsError() && m.catSnap.Err != nil:
		parts = append(parts, m.styles.DangerText.Render(truncate(m.catSnap.Err.Error(), 60)))
	}

	return strings.Join(parts, "   ")
}

func (m Model) renderFilterForm() string {
	f := m.filterForm
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Filter products"))
	b.WriteString("\n")
	labels := [3]string{"Title    ", "Min price", "Max price"}
	for i := range f.inputs {
		b.WriteString("  " + labels[i] + " " + f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.err != nil {
		b.WriteString(m.styles.DangerText.Render("  " + f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.MutedText.Render("  enter apply · tab next · esc cancel"))
	b.WriteString("\n")
	return m.styles.Focused.Render(b.String())
}
