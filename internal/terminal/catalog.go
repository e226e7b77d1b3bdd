package terminal

import (
	"context"
	"strings"
	"sync"

	"github.com/rizkypratama/warungpos/pkg/types"
)

// Catalog holds the last-fetched product list and supports substring
// filtering over it. Purely a read cache; never mutated by cart operations.
type Catalog struct {
	backend Backend

	mu     sync.RWMutex
	items  []types.CatalogItemView
	loaded bool
}

// NewCatalog builds an empty catalog cache.
func NewCatalog(backend Backend) *Catalog {
	return &Catalog{backend: backend}
}

// Load fetches the catalog from the backend and replaces the cache. A load
// failure leaves the previous cache intact so the operator keeps the last
// good listing.
func (c *Catalog) Load(ctx context.Context, query string) ([]types.CatalogItemView, error) {
	view, err := c.backend.Catalog(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = view.Items
	c.loaded = true
	c.mu.Unlock()

	return view.Items, nil
}

// Filter returns cached items whose SKU or name contains the query,
// case-insensitively. Server-returned order is preserved.
func (c *Catalog) Filter(query string) []types.CatalogItemView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]types.CatalogItemView(nil), c.items...)
	}

	var out []types.CatalogItemView
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.SKU), query) ||
			strings.Contains(strings.ToLower(item.Name), query) {
			out = append(out, item)
		}
	}
	return out
}

// Loaded reports whether a fetch has succeeded yet, so an empty filter
// result renders as "no matches" rather than "catalog unavailable".
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
