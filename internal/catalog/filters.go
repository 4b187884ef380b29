package catalog

import (
	"net/url"
	"strconv"
)

// Filters constrain the product list. Zero values mean "no constraint";
// only set fields are encoded into the address bar and the request.
type Filters struct {
	Title    string
	PriceMin int
	PriceMax int
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.Title == "" && f.PriceMin == 0 && f.PriceMax == 0
}

// parseLocation extracts the recognized query parameters. Absent or
// invalid values fall back to page 1 and no filters.
func parseLocation(values url.Values) (int, Filters) {
	page := 1
	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}

	var f Filters
	if title := values.Get("title"); title != "" {
		f.Title = title
	}
	if v := values.Get("price_min"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.PriceMin = n
		}
	}
	if v := values.Get("price_max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.PriceMax = n
		}
	}
	return page, f
}

// encodeLocation rebuilds the query string from scratch. Only recognized
// keys are ever written.
func encodeLocation(page int, f Filters) url.Values {
	values := url.Values{}
	if f.Title != "" {
		values.Set("title", f.Title)
	}
	if f.PriceMin > 0 {
		values.Set("price_min", strconv.Itoa(f.PriceMin))
	}
	if f.PriceMax > 0 {
		values.Set("price_max", strconv.Itoa(f.PriceMax))
	}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	return values
}
