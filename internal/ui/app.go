package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/cart"
	"github.com/mcarrillo/storefront/internal/catalog"
	"github.com/mcarrillo/storefront/internal/prefs"
	"github.com/mcarrillo/storefront/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewDetail
	ViewCart
	ViewAuth
	ViewPublish
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *api.Client
	Catalog   *catalog.Controller
	Cart      *cart.Store
	Session   *session.Store
	Updates   <-chan struct{}
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	client    *api.Client
	catalog   *catalog.Controller
	cart      *cart.Store
	session   *session.Store
	updates   <-chan struct{}
	prefsPath string

	// UI state
	theme       Theme
	styles      Styles
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model
	flash       flash

	// Data state
	catSnap    catalog.Snapshot
	cartSnap   cart.Snapshot
	sessSnap   session.Snapshot
	categories []api.Category

	// Catalog state
	selectedRow int

	// Filter form state
	filterActive bool
	filterForm   filterForm

	// Detail state
	detail    api.Product
	detailErr error

	// Auth form state
	authForm authForm

	// Publish form state
	publishForm publishForm
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	theme := GetTheme(themeName)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		catalog:   opts.Catalog,
		cart:      opts.Cart,
		session:   opts.Session,
		updates:   opts.Updates,
		prefsPath: prefsPath,
		theme:     theme,
		styles:    theme.Styles(),
		keys:      DefaultKeyMap(),
		spinner:   sp,
	}
	m.filterForm = newFilterForm()
	m.authForm = newAuthForm()
	m.publishForm = newPublishForm()
	m.resnapshot()
	return m
}

// resnapshot pulls fresh copies from the stores into the model.
func (m *Model) resnapshot() {
	if m.catalog != nil {
		m.catSnap = m.catalog.Snapshot()
	}
	if m.cart != nil {
		m.cartSnap = m.cart.Snapshot()
	}
	if m.session != nil {
		m.sessSnap = m.session.Snapshot()
	}
	if max := len(m.catSnap.Products) - 1; m.selectedRow > max {
		m.selectedRow = maxInt(max, 0)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		m.spinner.Tick,
	}
	if m.updates != nil {
		cmds = append(cmds, waitUpdateCmd(m.updates))
	}
	if m.catalog != nil {
		cmds = append(cmds, refreshCatalogCmd(m.ctx, m.catalog), categoriesCmd(m.ctx, m.catalog))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case updateMsg:
		m.resnapshot()
		if m.updates == nil {
			return m, nil
		}
		return m, waitUpdateCmd(m.updates)

	case categoriesMsg:
		if msg.err == nil {
			m.categories = msg.items
			m.publishForm.setCategories(msg.items)
		}
		return m, nil

	case productMsg:
		m.detail = msg.product
		m.detailErr = msg.err
		return m, nil

	case authMsg:
		m.authForm.busy = false
		m.authForm.err = msg.err
		m.resnapshot()
		if msg.err == nil {
			m.savePrefs()
			m.currentView = ViewCatalog
			cmd := m.setFlash(flashSuccess, "Signed in")
			return m, cmd
		}
		return m, nil

	case savedMsg:
		m.publishForm.busy = false
		m.publishForm.err = msg.err
		if msg.err == nil {
			m.currentView = ViewCatalog
			if msg.created {
				cmd := m.setFlash(flashSuccess, "Published "+msg.product.Title)
				return m, cmd
			}
			cmd := m.setFlash(flashSuccess, "Updated "+msg.product.Title)
			return m, cmd
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			cmd := m.setFlash(flashDanger, "Delete failed: "+msg.err.Error())
			return m, cmd
		}
		m.currentView = ViewCatalog
		cmd := m.setFlash(flashSuccess, "Product deleted")
		return m, cmd

	case flashClearMsg:
		if m.flash.seq == int(msg) {
			m.flash = flash{}
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Forms capture keys before the
// global bindings so typing never triggers navigation.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.currentView {
	case ViewAuth:
		return m.handleAuthKey(msg)
	case ViewPublish:
		return m.handlePublishKey(msg)
	}
	if m.filterActive {
		return m.handleFilterKey(msg)
	}

	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, keys.ViewCatalog), key.Matches(msg, keys.Escape):
		m.currentView = ViewCatalog
		return m, nil

	case key.Matches(msg, keys.ViewCart):
		m.toggleCart()
		return m, nil

	case key.Matches(msg, keys.SignIn):
		return m.handleSignInKey()

	case key.Matches(msg, keys.Publish):
		if !m.sessSnap.Authenticated {
			cmd := m.setFlash(flashWarning, "Sign in to publish products")
			return m, cmd
		}
		m.publishForm.reset(nil)
		m.currentView = ViewPublish
		cmd := m.publishForm.focusFirst()
		return m, cmd
	}

	switch m.currentView {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	}

	return m, nil
}

func (m Model) handleSignInKey() (tea.Model, tea.Cmd) {
	if m.sessSnap.Authenticated {
		m.session.Logout()
		m.resnapshot()
		cmd := m.setFlash(flashSuccess, "Signed out")
		return m, cmd
	}
	m.authForm.reset(m.loadPrefEmail())
	m.currentView = ViewAuth
	cmd := m.authForm.focusFirst()
	return m, cmd
}

// toggleCart flips between the cart view and the catalog, mirroring the
// open flag kept on the cart store.
func (m *Model) toggleCart() {
	if m.currentView == ViewCart {
		m.cart.SetOpen(false)
		m.currentView = ViewCatalog
	} else {
		m.cart.SetOpen(true)
		m.currentView = ViewCart
		m.selectedRow = 0
	}
	m.resnapshot()
}

func (m *Model) savePrefs() {
	p, _ := prefs.Load(m.prefsPath)
	p.Theme = m.theme.Name
	if m.sessSnap.User != nil {
		p.Email = m.sessSnap.User.Email
	}
	_ = prefs.Save(m.prefsPath, p)
}

func (m *Model) loadPrefEmail() string {
	p, _ := prefs.Load(m.prefsPath)
	return p.Email
}

// Messages

type updateMsg struct{}

type categoriesMsg struct {
	items []api.Category
	err   error
}

type productMsg struct {
	product api.Product
	err     error
}

type authMsg struct {
	err error
}

type savedMsg struct {
	product api.Product
	created bool
	err     error
}

type deletedMsg struct {
	err error
}

type flashClearMsg int

// Commands

func waitUpdateCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return updateMsg{}
	}
}

func refreshCatalogCmd(ctx context.Context, c *catalog.Controller) tea.Cmd {
	return func() tea.Msg {
		c.Refresh(ctx)
		return nil
	}
}

func categoriesCmd(ctx context.Context, c *catalog.Controller) tea.Cmd {
	return func() tea.Msg {
		items, err := c.Categories(ctx)
		return categoriesMsg{items: items, err: err}
	}
}

func productCmd(ctx context.Context, c *catalog.Controller, id int) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Product(ctx, id)
		return productMsg{product: p, err: err}
	}
}

func deleteProductCmd(ctx context.Context, c *catalog.Controller, id int) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: c.DeleteProduct(ctx, id)}
	}
}

const flashDuration = 4 * time.Second

type flashLevel int

const (
	flashNone flashLevel = iota
	flashSuccess
	flashWarning
	flashDanger
)

type flash struct {
	level flashLevel
	text  string
	seq   int
}

// setFlash replaces the footer message and schedules its expiry. The
// sequence number keeps an old expiry from clearing a newer message.
func (m *Model) setFlash(level flashLevel, text string) tea.Cmd {
	m.flash = flash{level: level, text: text, seq: m.flash.seq + 1}
	seq := m.flash.seq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg(seq)
	})
}

// Run starts the Bubble Tea program. Send more updates on
// Options.Updates to repaint when a store changes outside the UI loop.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
