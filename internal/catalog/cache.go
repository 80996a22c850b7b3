package catalog

import (
	"context"
	"sync"
	"time"
)

// Lister fetches the product listing for a store owner's username.
type Lister interface {
	Products(ctx context.Context, usuario string) ([]Product, error)
}

// Cache memoizes product listings for a short TTL so browsing does not
// refetch on every view. Checkout invalidates it after a sale so stock
// counts reflect what was just sold.
type Cache struct {
	mu      sync.Mutex
	lister  Lister
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	products  []Product
	fetchedAt time.Time
}

func NewCache(lister Lister, ttl time.Duration) *Cache {
	return &Cache{
		lister:  lister,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Products returns the cached listing for usuario, fetching through the
// underlying Lister on a miss or an expired entry. Fetch errors are not
// cached.
func (c *Cache) Products(ctx context.Context, usuario string) ([]Product, error) {
	c.mu.Lock()
	if e, ok := c.entries[usuario]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		products := e.products
		c.mu.Unlock()
		return products, nil
	}
	c.mu.Unlock()

	products, err := c.lister.Products(ctx, usuario)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[usuario] = cacheEntry{products: products, fetchedAt: c.now()}
	c.mu.Unlock()
	return products, nil
}

// Invalidate drops every cached listing, forcing the next read to hit
// the backend.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
