// Package cart holds the cart store for one shopping session.
package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/domain"
)

// MaxQuantity is the largest quantity a single line item may hold.
const MaxQuantity = 99

// Store is the single source of truth for the active cart. Items keep
// insertion order; at most one line item exists per product ID.
type Store struct {
	mu        sync.RWMutex
	items     []domain.CartLineItem
	index     map[string]int // productID -> position in items
	itemCount int
	subtotal  int64
	updatedAt time.Time
	now       func() time.Time
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// AddItem increments the quantity of an existing line item for product.ID or
// appends a new one. The resulting line quantity may not exceed MaxQuantity.
func (s *Store) AddItem(product domain.Product, quantity int) error {
	if quantity <= 0 || quantity > MaxQuantity {
		return fmt.Errorf("add %d of product %s: %w", quantity, product.ID, ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[product.ID]; ok {
		if s.items[i].Quantity+quantity > MaxQuantity {
			return fmt.Errorf("add %d of product %s to %d: %w", quantity, product.ID, s.items[i].Quantity, ErrInvalidQuantity)
		}
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.CartLineItem{
			Product:  product,
			Quantity: quantity,
			AddedAt:  s.now(),
		})
		s.index[product.ID] = len(s.items) - 1
	}

	s.recompute()
	return nil
}

// SetQuantity sets the quantity of an existing line item. Zero removes it
// and an absent product is left absent. Values outside 0..MaxQuantity are
// rejected.
func (s *Store) SetQuantity(productID string, quantity int) error {
	if quantity < 0 || quantity > MaxQuantity {
		return fmt.Errorf("set quantity %d of product %s: %w", quantity, productID, ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return nil
	}
	if quantity == 0 {
		s.removeAt(i)
	} else {
		s.items[i].Quantity = quantity
	}

	s.recompute()
	return nil
}

// RemoveItem removes the line item for productID if present.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return
	}
	s.removeAt(i)
	s.recompute()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[string]int)
	s.recompute()
}

// Snapshot returns a copy of the current items and derived values.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.CartLineItem, len(s.items))
	copy(items, s.items)
	for i := range items {
		items[i].Product.Images = append([]string(nil), items[i].Product.Images...)
		items[i].Product.Tags = append([]string(nil), items[i].Product.Tags...)
	}

	return domain.CartSnapshot{
		Items:     items,
		ItemCount: s.itemCount,
		Subtotal:  s.subtotal,
		UpdatedAt: s.updatedAt,
	}
}

// removeAt drops items[i] and reindexes the items after it. Caller holds mu.
func (s *Store) removeAt(i int) {
	delete(s.index, s.items[i].Product.ID)
	s.items = append(s.items[:i], s.items[i+1:]...)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].Product.ID] = j
	}
}

// recompute refreshes the cached derived values. Caller holds mu.
func (s *Store) recompute() {
	s.itemCount, s.subtotal = Derive(s.items)
	s.updatedAt = s.now()
}

// Derive returns the item count and subtotal of items.
func Derive(items []domain.CartLineItem) (itemCount int, subtotal int64) {
	for _, item := range items {
		itemCount += item.Quantity
		subtotal += item.LineTotal()
	}
	return itemCount, subtotal
}
