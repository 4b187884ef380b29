// Package cart holds the local shopping cart: persisted line items plus
// derived totals. Totals are always recomputed from the item list, never
// adjusted in place.
package cart

import (
	"sync"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/storage"
)

// ItemCategory is the category snapshot carried by a line item.
type ItemCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LineItem is one cart row, keyed by product id.
type LineItem struct {
	ID       int           `json:"id"`
	Title    string        `json:"title"`
	Price    float64       `json:"price"`
	Image    string        `json:"image,omitempty"`
	Category *ItemCategory `json:"category,omitempty"`
	Quantity int           `json:"quantity"`
}

// ItemInput is the product snapshot captured when an item is first added.
type ItemInput struct {
	ID       int
	Title    string
	Price    float64
	Image    string
	Category *ItemCategory
}

// ItemFromProduct builds the cart snapshot of an API product.
func ItemFromProduct(p api.Product) ItemInput {
	in := ItemInput{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
	}
	if len(p.Images) > 0 {
		in.Image = p.Images[0]
	}
	if p.Category.ID != 0 || p.Category.Name != "" {
		in.Category = &ItemCategory{ID: p.Category.ID, Name: p.Category.Name}
	}
	return in
}

// Snapshot is an immutable view of the cart.
type Snapshot struct {
	Items      []LineItem
	TotalItems int
	TotalPrice float64
	Open       bool
}

// persisted is the subset written to local storage. The open flag is
// deliberately not part of it.
type persisted struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

const storageKey = "cart-storage"

// Store coordinates cart mutations and write-through persistence.
type Store struct {
	mu         sync.RWMutex
	items      []LineItem
	totalItems int
	totalPrice float64
	open       bool
	local      *storage.Store
}

// Load builds a Store, restoring any persisted cart. A nil local store
// gives an in-memory cart.
func Load(local *storage.Store) *Store {
	s := &Store{local: local}
	if local == nil {
		return s
	}
	var doc persisted
	if ok, err := local.Get(storageKey, &doc); err == nil && ok {
		s.items = doc.Items
		// Recompute rather than trust the stored totals.
		s.totalItems, s.totalPrice = computeTotals(s.items)
	}
	return s
}

// AddItem inserts a new line item with quantity 1, or increments the
// quantity when the product is already in the cart. The stored title,
// price, and image keep their first-add snapshot.
func (s *Store) AddItem(in ItemInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ID == in.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, LineItem{
			ID:       in.ID,
			Title:    in.Title,
			Price:    in.Price,
			Image:    in.Image,
			Category: in.Category,
			Quantity: 1,
		})
	}
	s.recompute()
}

// RemoveItem deletes the line item for the product id. Missing items are
// a no-op.
func (s *Store) RemoveItem(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	s.recompute()
}

// UpdateQuantity sets the absolute quantity for a line item. A quantity
// of zero or less removes the item; unknown ids are a no-op.
func (s *Store) UpdateQuantity(id, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(id)
		s.recompute()
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.recompute()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.recompute()
}

// ToggleOpen flips the cart panel visibility. Not persisted.
func (s *Store) ToggleOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

// SetOpen sets the cart panel visibility. Not persisted.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:      cloneItems(s.items),
		TotalItems: s.totalItems,
		TotalPrice: s.totalPrice,
		Open:       s.open,
	}
}

func (s *Store) removeLocked(id int) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// recompute refreshes the derived totals and writes the persisted subset
// through to local storage. Persistence is best-effort; cart mutations
// themselves cannot fail.
func (s *Store) recompute() {
	s.totalItems, s.totalPrice = computeTotals(s.items)
	if s.local == nil {
		return
	}
	_ = s.local.Set(storageKey, persisted{
		Items:      s.items,
		TotalItems: s.totalItems,
		TotalPrice: s.totalPrice,
	})
}

func computeTotals(items []LineItem) (int, float64) {
	count := 0
	price := 0.0
	for _, it := range items {
		count += it.Quantity
		price += it.Price * float64(it.Quantity)
	}
	return count, price
}

func cloneItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	dup := make([]LineItem, len(items))
	copy(dup, items)
	return dup
}
