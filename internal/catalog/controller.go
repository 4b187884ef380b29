package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/query"
)

// Status is the lifecycle state of the current query key.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

const (
	defaultPageSize  = 10
	categoryCacheTTL = 5 * time.Minute

	productsKeyPrefix = "products"
	categoriesKey     = "categories"
)

// Options configure a Controller.
type Options struct {
	Client     *api.Client
	AddressBar AddressBar
	PageSize   int
	// Notify is called after every snapshot-visible state change, from
	// whichever goroutine made the change. May be nil.
	Notify func()
}

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	Page     int
	Filters  Filters
	Products []api.Product
	Status   Status
	Err      error
}

// IsLoading reports whether a fetch for the current key is in flight.
func (s Snapshot) IsLoading() bool { return s.Status == StatusLoading }

// IsError reports whether the current key resolved with an error.
func (s Snapshot) IsError() bool { return s.Status == StatusError }

// Controller owns the page/filter state, its address-bar projection, and
// the product fetch keyed by them.
type Controller struct {
	client     *api.Client
	bar        AddressBar
	pageSize   int
	notify     func()
	products   *query.Cache
	categories *query.Cache

	mu         sync.Mutex
	page       int
	filters    Filters
	generation uint64
	status     Status
	list       []api.Product
	err        error
}

// New hydrates a Controller from the address bar and immediately writes
// the resulting state back, dropping any unrecognized parameters.
func New(opts Options) *Controller {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	c := &Controller{
		client:     opts.Client,
		bar:        opts.AddressBar,
		pageSize:   pageSize,
		notify:     opts.Notify,
		products:   query.New(),
		categories: query.New(query.WithTTL(categoryCacheTTL)),
	}

	values := url.Values{}
	if c.bar != nil {
		values = c.bar.Read()
	}
	c.mu.Lock()
	c.page, c.filters = parseLocation(values)
	c.pushLocked()
	c.mu.Unlock()
	return c
}

// Snapshot returns a copy of the current controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Page:     c.page,
		Filters:  c.filters,
		Products: cloneProducts(c.list),
		Status:   c.status,
		Err:      c.err,
	}
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int { return c.pageSize }

// QueryKey returns the cache key for the current (page, pageSize,
// filters) tuple.
func (c *Controller) QueryKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyLocked()
}

// SetPage moves to the given page, clamped to a minimum of 1, and starts
// a fetch for the new key. Setting the current page is a no-op.
func (c *Controller) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	if page == c.page {
		c.mu.Unlock()
		return
	}
	c.page = page
	c.pushLocked()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetFilters replaces the filters wholesale and resets the page to 1,
// then starts a fetch for the new key.
func (c *Controller) SetFilters(ctx context.Context, f Filters) {
	c.mu.Lock()
	c.filters = f
	c.page = 1
	c.pushLocked()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Refresh starts a fetch for the current key. A result belonging to an
// older refresh is discarded when it resolves.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	key := c.keyLocked()
	req := c.requestLocked()
	c.status = StatusLoading
	c.err = nil
	c.mu.Unlock()
	c.emit()

	go func() {
		value, err := c.products.Get(ctx, key, func(ctx context.Context) (any, error) {
			return c.client.ListProducts(ctx, req)
		})

		c.mu.Lock()
		if gen != c.generation {
			// The key changed while this fetch was in flight.
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.status = StatusError
			c.err = err
			c.list = nil
		} else {
			c.status = StatusSuccess
			c.err = nil
			c.list, _ = value.([]api.Product)
		}
		c.mu.Unlock()
		c.emit()
	}()
}

// Categories returns the category list, cached for a few minutes.
func (c *Controller) Categories(ctx context.Context) ([]api.Category, error) {
	value, err := c.categories.Get(ctx, categoriesKey, func(ctx context.Context) (any, error) {
		return c.client.ListCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	cats, _ := value.([]api.Category)
	return cats, nil
}

// Product fetches a single product through the cache.
func (c *Controller) Product(ctx context.Context, id int) (api.Product, error) {
	key := fmt.Sprintf("%s:id=%d", productsKeyPrefix, id)
	value, err := c.products.Get(ctx, key, func(ctx context.Context) (any, error) {
		return c.client.GetProduct(ctx, id)
	})
	if err != nil {
		return api.Product{}, err
	}
	p, _ := value.(api.Product)
	return p, nil
}

// CreateProduct publishes a product and invalidates the product cache so
// the next render refetches.
func (c *Controller) CreateProduct(ctx context.Context, in api.CreateProductRequest) (api.Product, error) {
	p, err := c.client.CreateProduct(ctx, in)
	if err != nil {
		return api.Product{}, err
	}
	c.invalidateProducts(ctx)
	return p, nil
}

// UpdateProduct edits a product and invalidates the product cache.
func (c *Controller) UpdateProduct(ctx context.Context, id int, in api.UpdateProductRequest) (api.Product, error) {
	p, err := c.client.UpdateProduct(ctx, id, in)
	if err != nil {
		return api.Product{}, err
	}
	c.invalidateProducts(ctx)
	return p, nil
}

// DeleteProduct removes a product and invalidates the product cache.
func (c *Controller) DeleteProduct(ctx context.Context, id int) error {
	ok, err := c.client.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete product %d: server refused", id)
	}
	c.invalidateProducts(ctx)
	return nil
}

func (c *Controller) invalidateProducts(ctx context.Context) {
	c.products.InvalidatePrefix(productsKeyPrefix)
	c.Refresh(ctx)
}

// keyLocked derives the stable query key for the current state.
func (c *Controller) keyLocked() string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(c.page))
	values.Set("limit", strconv.Itoa(c.pageSize))
	if c.filters.Title != "" {
		values.Set("title", c.filters.Title)
	}
	if c.filters.PriceMin > 0 {
		values.Set("price_min", strconv.Itoa(c.filters.PriceMin))
	}
	if c.filters.PriceMax > 0 {
		values.Set("price_max", strconv.Itoa(c.filters.PriceMax))
	}
	return productsKeyPrefix + ":" + values.Encode()
}

func (c *Controller) requestLocked() api.ProductQuery {
	return api.ProductQuery{
		Offset:   (c.page - 1) * c.pageSize,
		Limit:    c.pageSize,
		Title:    c.filters.Title,
		PriceMin: c.filters.PriceMin,
		PriceMax: c.filters.PriceMax,
	}
}

func (c *Controller) pushLocked() {
	if c.bar == nil {
		return
	}
	c.bar.Push(encodeLocation(c.page, c.filters))
}

func (c *Controller) emit() {
	if c.notify != nil {
		c.notify()
	}
}

func cloneProducts(items []api.Product) []api.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Product, len(items))
	copy(dup, items)
	return dup
}
