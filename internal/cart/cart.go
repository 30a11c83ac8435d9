// Package cart holds the in-memory shopping cart. All mutation goes through
// named operations; totals are derived and recomputed on every change.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shopkit/storefront/internal/metrics"
	"github.com/shopkit/storefront/internal/models"
)

// Store owns the cart state. Each operation is atomic with respect to
// readers; Snapshot never observes a partial update.
type Store struct {
	mutex sync.RWMutex
	state models.CartState
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{state: emptyState()}
}

func emptyState() models.CartState {
	return models.CartState{
		Items:     []models.CartItem{},
		Total:     decimal.Zero,
		ItemCount: 0,
	}
}

// AddItem adds one unit of the product. An existing line item for the same
// product id has its quantity incremented; otherwise a new line item is
// appended with quantity 1.
func (s *Store) AddItem(product models.Product) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID == product.ID {
			s.state.Items[i].Quantity++
			s.recompute()
			metrics.CartOperations.WithLabelValues("add_item").Inc()
			return
		}
	}

	s.state.Items = append(s.state.Items, models.CartItem{Product: product, Quantity: 1})
	s.recompute()
	metrics.CartOperations.WithLabelValues("add_item").Inc()
}

// RemoveItem drops the line item with the given product id. Removing an
// absent id is a no-op, not an error.
func (s *Store) RemoveItem(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	filtered := s.state.Items[:0]
	for _, item := range s.state.Items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	s.state.Items = filtered
	s.recompute()
	metrics.CartOperations.WithLabelValues("remove_item").Inc()
}

// UpdateQuantity sets the quantity for the given product id, clamped to >= 0.
// A resulting quantity of 0 removes the item.
func (s *Store) UpdateQuantity(id, quantity int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if quantity < 0 {
		quantity = 0
	}

	filtered := s.state.Items[:0]
	for _, item := range s.state.Items {
		if item.ID == id {
			item.Quantity = quantity
		}
		if item.Quantity > 0 {
			filtered = append(filtered, item)
		}
	}
	s.state.Items = filtered
	s.recompute()
	metrics.CartOperations.WithLabelValues("update_quantity").Inc()
}

// Clear resets the cart to the empty state.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.state = emptyState()
	metrics.CartOperations.WithLabelValues("clear").Inc()
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() models.CartState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	items := make([]models.CartItem, len(s.state.Items))
	copy(items, s.state.Items)

	return models.CartState{
		Items:     items,
		Total:     s.state.Total,
		ItemCount: s.state.ItemCount,
	}
}

// recompute rederives total and itemCount from the line items.
// Callers must hold the write lock.
func (s *Store) recompute() {
	total := decimal.Zero
	count := 0
	for _, item := range s.state.Items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}
	s.state.Total = total
	s.state.ItemCount = count
}
