package catalog

import (
	"net/url"

	"github.com/mcarrillo/storefront/internal/storage"
)

// AddressBar is the navigation collaborator the controller syncs with.
// Read is consulted once at construction; Push replaces the visible
// query string without causing a reload.
type AddressBar interface {
	Read() url.Values
	Push(values url.Values)
}

// StoredLocation keeps the query string in local storage so the catalog
// position survives restarts, standing in for the browser address bar.
type StoredLocation struct {
	local *storage.Store
}

const locationKey = "catalog-location"

type locationDoc struct {
	Query string `json:"query"`
}

// NewStoredLocation builds a StoredLocation. A non-empty seed (a deep
// link passed on the command line) replaces whatever was stored.
func NewStoredLocation(local *storage.Store, seed string) *StoredLocation {
	loc := &StoredLocation{local: local}
	if seed != "" {
		if values, err := url.ParseQuery(trimQuery(seed)); err == nil {
			loc.Push(values)
		}
	}
	return loc
}

// Read returns the stored query string, or empty values when nothing is
// stored or the document is unreadable.
func (l *StoredLocation) Read() url.Values {
	if l.local == nil {
		return url.Values{}
	}
	var doc locationDoc
	if ok, err := l.local.Get(locationKey, &doc); err != nil || !ok {
		return url.Values{}
	}
	values, err := url.ParseQuery(doc.Query)
	if err != nil {
		return url.Values{}
	}
	return values
}

// Push stores the query string. Best-effort, like every local-storage
// write in this program.
func (l *StoredLocation) Push(values url.Values) {
	if l.local == nil {
		return
	}
	_ = l.local.Set(locationKey, locationDoc{Query: values.Encode()})
}

func trimQuery(s string) string {
	if len(s) > 0 && s[0] == '?' {
		return s[1:]
	}
	return s
}
