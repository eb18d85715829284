package storage

import (
	"context"
	"sync"

	"github.com/rl1809/source-deduction/internal/port"
)

// ProductIDCache is a read-through cache in front of a ProductResolver.
// Entries live for the lifetime of the process and are never evicted; misses
// (SKUs with no bound product) are cached too, so repeated deductions of the
// same SKU hit the backing store once.
type ProductIDCache struct {
	next port.ProductResolver

	mu  sync.RWMutex
	ids map[string]string
}

func NewProductIDCache(next port.ProductResolver) *ProductIDCache {
	return &ProductIDCache{
		next: next,
		ids:  make(map[string]string),
	}
}

func (c *ProductIDCache) LookupProductIDForSKU(ctx context.Context, sku string) (string, error) {
	c.mu.RLock()
	id, ok := c.ids[sku]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	id, err := c.next.LookupProductIDForSKU(ctx, sku)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.ids[sku] = id
	c.mu.Unlock()

	return id, nil
}
