package store

import (
	"context"
	"sync"
)

// MemoryStore keeps everything in maps. It is the default store for the
// dev backend and the one the handler tests run against.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]User
	products   map[string]Product
	categories map[string]Category
	sales      map[string]Sale
	saleOrder  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]User),
		products:   make(map[string]Product),
		categories: make(map[string]Category),
		sales:      make(map[string]Sale),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Usuario]; ok {
		return ErrUserExists
	}
	m.users[u.Usuario] = u
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, usuario string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[usuario]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) ListProducts(ctx context.Context, usuario string) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Product
	for _, p := range m.products {
		if p.Usuario == usuario {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetProduct(ctx context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) AdjustStock(ctx context.Context, usuario, nome string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.products {
		if p.Usuario == usuario && p.Nome == nome {
			p.Quantidade += delta
			if p.Quantidade < 0 {
				p.Quantidade = 0
			}
			m.products[id] = p
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore) CreateCategory(ctx context.Context, c Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, c Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return ErrNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) CreateSale(ctx context.Context, s Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[s.ID] = s
	m.saleOrder = append(m.saleOrder, s.ID)
	return nil
}

func (m *MemoryStore) ListSales(ctx context.Context, usuario string) ([]Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Sale
	for _, id := range m.saleOrder {
		s := m.sales[id]
		if usuario == "" || s.Usuario == usuario {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetSale(ctx context.Context, id string) (Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sales[id]
	if !ok {
		return Sale{}, ErrNotFound
	}
	return s, nil
}
