package api

import (
	"context"
	"fmt"
	"net/url"
)

// ListCategories retrieves all categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	rel := &url.URL{Path: "/categories"}
	if err := c.get(ctx, rel, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory retrieves a single category by id.
func (c *Client) GetCategory(ctx context.Context, id int) (Category, error) {
	var cat Category
	rel := &url.URL{Path: fmt.Sprintf("/categories/%d", id)}
	if err := c.get(ctx, rel, &cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}
