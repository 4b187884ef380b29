package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListProducts retrieves one page of the catalog. Filters with zero values
// are left out of the query string.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	values := url.Values{}
	values.Set("offset", strconv.Itoa(q.Offset))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Title != "" {
		values.Set("title", q.Title)
	}
	if q.PriceMin > 0 {
		values.Set("price_min", strconv.Itoa(q.PriceMin))
	}
	if q.PriceMax > 0 {
		values.Set("price_max", strconv.Itoa(q.PriceMax))
	}

	var products []Product
	rel := &url.URL{Path: "/products", RawQuery: values.Encode()}
	if err := c.get(ctx, rel, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct retrieves a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	var p Product
	rel := &url.URL{Path: fmt.Sprintf("/products/%d", id)}
	if err := c.get(ctx, rel, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// CreateProduct publishes a new product and returns the created record.
func (c *Client) CreateProduct(ctx context.Context, in CreateProductRequest) (Product, error) {
	var p Product
	rel := &url.URL{Path: "/products"}
	if err := c.do(ctx, http.MethodPost, rel, in, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdateProduct edits an existing product and returns the updated record.
func (c *Client) UpdateProduct(ctx context.Context, id int, in UpdateProductRequest) (Product, error) {
	var p Product
	rel := &url.URL{Path: fmt.Sprintf("/products/%d", id)}
	if err := c.do(ctx, http.MethodPut, rel, in, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a product. The remote API answers with a bare
// boolean body.
func (c *Client) DeleteProduct(ctx context.Context, id int) (bool, error) {
	var ok bool
	rel := &url.URL{Path: fmt.Sprintf("/products/%d", id)}
	if err := c.do(ctx, http.MethodDelete, rel, nil, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
