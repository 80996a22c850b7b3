// Package cart owns the list of cart line items. A line item is keyed by
// (product, color, size); adding the same key again merges quantities
// instead of duplicating the line. Insertion order is preserved for
// display.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/example/loja-storefront/internal/catalog"
)

// LineItem is one product+variant entry in the cart.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// Subtotal is unit price times quantity for this line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// matches reports whether the line item has the given identity key. An
// unset variant and an empty one are the same thing, so items added
// without a color/size selection stay addressable.
func (li LineItem) matches(productID, color, size string) bool {
	return li.ProductID == productID && li.Color == color && li.Size == size
}

// Store holds the ordered cart contents. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

func NewStore() *Store {
	return &Store{}
}

// Add puts quantity units of the product (in the given variant) into the
// cart. An existing line with the same identity key has its quantity
// incremented; otherwise a new line is appended. A quantity below 1 is
// clamped to 1 rather than rejected.
func (s *Store) Add(p catalog.Product, quantity int, color, size string) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].matches(p.ID, color, size) {
			s.items[i].Quantity += quantity
			return
		}
	}

	s.items = append(s.items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Color:     color,
		Size:      size,
		Image:     p.Image,
	})
}

// Remove deletes the line item with the given identity key. Removing an
// absent key is a no-op, not an error.
func (s *Store) Remove(productID, color, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].matches(productID, color, size) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of the matching line item to
// max(1, quantity). Zero or negative never reaches the cart; deletion is
// expressed with Remove, not with a zero quantity. No-op if no line
// matches.
func (s *Store) UpdateQuantity(productID, color, size string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].matches(productID, color, size) {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally. Called after a successful
// checkout and by explicit user action.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the total quantity across all line items, used for the
// cart badge.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, li := range s.items {
		total += li.Quantity
	}
	return total
}

// Len returns the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
