package cart

import (
	"encoding/json"
	"fmt"

	"github.com/example/loja-storefront/internal/storage"
)

// Load restores a cart previously saved with Persist. An absent or empty
// entry yields an empty cart, so a fresh session always starts cleanly.
func Load(st storage.Storage) (*Store, error) {
	s := NewStore()

	raw, ok := st.Get(storage.KeyCart)
	if !ok || raw == "" {
		return s, nil
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("corrupt cart state: %w", err)
	}
	s.items = items
	return s, nil
}

// Persist writes the current cart contents into durable client storage.
func (s *Store) Persist(st storage.Storage) error {
	items := s.Items()
	if len(items) == 0 {
		return st.Delete(storage.KeyCart)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return st.Set(storage.KeyCart, string(raw))
}
