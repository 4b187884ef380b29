package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/catalog"
	"github.com/mcarrillo/storefront/internal/session"
)

// filterForm edits the catalog filters: title search plus a price band.
type filterForm struct {
	inputs [3]textinput.Model
	focus  int
	err    error
}

const (
	filterFieldTitle = iota
	filterFieldPriceMin
	filterFieldPriceMax
)

func newFilterForm() filterForm {
	var f filterForm
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].CharLimit = 64
		f.inputs[i].Width = 24
	}
	f.inputs[filterFieldTitle].Placeholder = "title contains"
	f.inputs[filterFieldPriceMin].Placeholder = "min price"
	f.inputs[filterFieldPriceMax].Placeholder = "max price"
	return f
}

// load seeds the inputs from the active filters so editing starts from
// the current state rather than a blank form.
func (f *filterForm) load(current catalog.Filters) tea.Cmd {
	f.err = nil
	f.inputs[filterFieldTitle].SetValue(current.Title)
	f.inputs[filterFieldPriceMin].SetValue(encodeInt(current.PriceMin))
	f.inputs[filterFieldPriceMax].SetValue(encodeInt(current.PriceMax))
	return f.setFocus(filterFieldTitle)
}

func (f *filterForm) setFocus(idx int) tea.Cmd {
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *filterForm) next() tea.Cmd {
	return f.setFocus((f.focus + 1) % len(f.inputs))
}

// filters parses the inputs. A non-numeric price is an error rather than
// a silent zero so typos do not quietly drop a constraint.
func (f *filterForm) filters() (catalog.Filters, error) {
	min, err := parseOptionalInt(f.inputs[filterFieldPriceMin].Value())
	if err != nil {
		return catalog.Filters{}, errors.New("min price must be a whole number")
	}
	max, err := parseOptionalInt(f.inputs[filterFieldPriceMax].Value())
	if err != nil {
		return catalog.Filters{}, errors.New("max price must be a whole number")
	}
	if min > 0 && max > 0 && min > max {
		return catalog.Filters{}, errors.New("min price is above max price")
	}
	return catalog.Filters{
		Title:    strings.TrimSpace(f.inputs[filterFieldTitle].Value()),
		PriceMin: min,
		PriceMax: max,
	}, nil
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterActive = false
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		cmd := m.filterForm.next()
		return m, cmd

	case tea.KeyEnter:
		filters, err := m.filterForm.filters()
		if err != nil {
			m.filterForm.err = err
			return m, nil
		}
		m.filterActive = false
		m.selectedRow = 0
		c, ctx := m.catalog, m.ctx
		return m, func() tea.Msg {
			c.SetFilters(ctx, filters)
			return nil
		}
	}
	cmd := m.filterForm.update(msg)
	return m, cmd
}

// authForm covers both sign-in and registration.
type authForm struct {
	signup bool
	inputs [3]textinput.Model
	focus  int
	busy   bool
	err    error
}

const (
	authFieldName = iota
	authFieldEmail
	authFieldPassword
)

func newAuthForm() authForm {
	var f authForm
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].CharLimit = 96
		f.inputs[i].Width = 32
	}
	f.inputs[authFieldName].Placeholder = "name"
	f.inputs[authFieldEmail].Placeholder = "email"
	f.inputs[authFieldPassword].Placeholder = "password"
	f.inputs[authFieldPassword].EchoMode = textinput.EchoPassword
	return f
}

func (f *authForm) reset(email string) {
	f.signup = false
	f.busy = false
	f.err = nil
	f.inputs[authFieldName].SetValue("")
	f.inputs[authFieldEmail].SetValue(email)
	f.inputs[authFieldPassword].SetValue("")
}

func (f *authForm) focusFirst() tea.Cmd {
	if f.signup {
		return f.setFocus(authFieldName)
	}
	return f.setFocus(authFieldEmail)
}

func (f *authForm) setFocus(idx int) tea.Cmd {
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *authForm) next() tea.Cmd {
	first := authFieldEmail
	if f.signup {
		first = authFieldName
	}
	idx := f.focus + 1
	if idx > authFieldPassword {
		idx = first
	}
	return f.setFocus(idx)
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authForm.busy {
		if msg.Type == tea.KeyEsc {
			m.currentView = ViewCatalog
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.currentView = ViewCatalog
		return m, nil

	case tea.KeyCtrlT:
		m.authForm.signup = !m.authForm.signup
		m.authForm.err = nil
		cmd := m.authForm.focusFirst()
		return m, cmd

	case tea.KeyTab, tea.KeyDown:
		cmd := m.authForm.next()
		return m, cmd

	case tea.KeyEnter:
		if m.authForm.focus != authFieldPassword {
			cmd := m.authForm.next()
			return m, cmd
		}
		name := strings.TrimSpace(m.authForm.inputs[authFieldName].Value())
		email := strings.TrimSpace(m.authForm.inputs[authFieldEmail].Value())
		password := m.authForm.inputs[authFieldPassword].Value()
		if email == "" || password == "" {
			m.authForm.err = errors.New("email and password are required")
			return m, nil
		}
		if m.authForm.signup && name == "" {
			m.authForm.err = errors.New("name is required")
			return m, nil
		}
		m.authForm.busy = true
		m.authForm.err = nil
		if m.authForm.signup {
			return m, signUpCmd(m.ctx, m.client, m.session, name, email, password)
		}
		return m, signInCmd(m.ctx, m.session, email, password)
	}
	cmd := m.authForm.update(msg)
	return m, cmd
}

func signInCmd(ctx context.Context, sess *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: sess.Login(ctx, email, password)}
	}
}

// signUpCmd registers an account and signs straight in. The availability
// check runs first so a taken email fails with a clear message instead
// of a generic create error.
func signUpCmd(ctx context.Context, client *api.Client, sess *session.Store, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		free, err := client.CheckEmailAvailable(ctx, email)
		if err != nil {
			return authMsg{err: err}
		}
		if !free {
			return authMsg{err: errors.New("that email is already registered")}
		}
		if _, err := client.CreateUser(ctx, api.CreateUserRequest{
			Name:     name,
			Email:    email,
			Password: password,
			Avatar:   defaultAvatarURL,
		}); err != nil {
			return authMsg{err: err}
		}
		return authMsg{err: sess.Login(ctx, email, password)}
	}
}

const defaultAvatarURL = "https://api.dicebear.com/9.x/identicon/png"

// publishForm creates or edits a product.
type publishForm struct {
	inputs     [4]textinput.Model
	focus      int
	categories []api.Category
	catIdx     int
	editing    *api.Product
	busy       bool
	err        error
}

const (
	publishFieldTitle = iota
	publishFieldPrice
	publishFieldDescription
	publishFieldImage
)

func newPublishForm() publishForm {
	var f publishForm
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].CharLimit = 256
		f.inputs[i].Width = 48
	}
	f.inputs[publishFieldTitle].Placeholder = "title"
	f.inputs[publishFieldPrice].Placeholder = "price"
	f.inputs[publishFieldDescription].Placeholder = "description"
	f.inputs[publishFieldImage].Placeholder = "image URL"
	return f
}

func (f *publishForm) setCategories(items []api.Category) {
	f.categories = items
	if f.catIdx >= len(items) {
		f.catIdx = 0
	}
}

// reset prepares the form for a new product, or prefills it from an
// existing one when editing.
func (f *publishForm) reset(editing *api.Product) {
	f.editing = editing
	f.busy = false
	f.err = nil
	if editing == nil {
		for i := range f.inputs {
			f.inputs[i].SetValue("")
		}
		return
	}
	f.inputs[publishFieldTitle].SetValue(editing.Title)
	f.inputs[publishFieldPrice].SetValue(strconv.FormatFloat(editing.Price, 'f', -1, 64))
	f.inputs[publishFieldDescription].SetValue(editing.Description)
	if len(editing.Images) > 0 {
		f.inputs[publishFieldImage].SetValue(editing.Images[0])
	} else {
		f.inputs[publishFieldImage].SetValue("")
	}
	for i, cat := range f.categories {
		if cat.ID == editing.Category.ID {
			f.catIdx = i
			break
		}
	}
}

func (f *publishForm) focusFirst() tea.Cmd {
	return f.setFocus(publishFieldTitle)
}

func (f *publishForm) setFocus(idx int) tea.Cmd {
	f.focus = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *publishForm) next() tea.Cmd {
	return f.setFocus((f.focus + 1) % len(f.inputs))
}

func (f *publishForm) category() (api.Category, bool) {
	if len(f.categories) == 0 {
		return api.Category{}, false
	}
	return f.categories[f.catIdx], true
}

func (f *publishForm) cycleCategory(delta int) {
	if len(f.categories) == 0 {
		return
	}
	f.catIdx = (f.catIdx + delta + len(f.categories)) % len(f.categories)
}

func (f *publishForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m Model) handlePublishKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.publishForm.busy {
		if msg.Type == tea.KeyEsc {
			m.currentView = ViewCatalog
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.currentView = ViewCatalog
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		cmd := m.publishForm.next()
		return m, cmd

	case tea.KeyCtrlP:
		m.publishForm.cycleCategory(1)
		return m, nil

	case tea.KeyEnter:
		if m.publishForm.focus != publishFieldImage {
			cmd := m.publishForm.next()
			return m, cmd
		}
		return m.submitPublish()
	}
	cmd := m.publishForm.update(msg)
	return m, cmd
}

func (m Model) submitPublish() (tea.Model, tea.Cmd) {
	f := &m.publishForm
	title := strings.TrimSpace(f.inputs[publishFieldTitle].Value())
	if title == "" {
		f.err = errors.New("title is required")
		return m, nil
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[publishFieldPrice].Value()), 64)
	if err != nil || price < 0 {
		f.err = errors.New("price must be a non-negative number")
		return m, nil
	}
	cat, ok := f.category()
	if !ok {
		f.err = errors.New("no categories loaded yet")
		return m, nil
	}
	description := strings.TrimSpace(f.inputs[publishFieldDescription].Value())
	image := strings.TrimSpace(f.inputs[publishFieldImage].Value())

	f.busy = true
	f.err = nil
	c, ctx := m.catalog, m.ctx

	if f.editing != nil {
		id := f.editing.ID
		req := api.UpdateProductRequest{
			Title:       &title,
			Price:       &price,
			Description: &description,
			CategoryID:  &cat.ID,
		}
		if image != "" {
			req.Images = []string{image}
		}
		return m, func() tea.Msg {
			p, err := c.UpdateProduct(ctx, id, req)
			return savedMsg{product: p, err: err}
		}
	}

	req := api.CreateProductRequest{
		Title:       title,
		Price:       price,
		Description: description,
		CategoryID:  cat.ID,
		Images:      []string{image},
	}
	if image == "" {
		req.Images = nil
	}
	return m, func() tea.Msg {
		p, err := c.CreateProduct(ctx, req)
		return savedMsg{product: p, created: true, err: err}
	}
}

func parseOptionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("not a non-negative integer")
	}
	return n, nil
}

func encodeInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
