package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type countingResolver struct {
	mu       sync.Mutex
	calls    int
	products map[string]string
	err      error
}

func (r *countingResolver) LookupProductIDForSKU(ctx context.Context, sku string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.products[sku], nil
}

func TestProductIDCache_ReadThrough(t *testing.T) {
	backend := &countingResolver{products: map[string]string{"sku-a": "prod-1"}}
	cache := NewProductIDCache(backend)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := cache.LookupProductIDForSKU(ctx, "sku-a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "prod-1" {
			t.Errorf("expected prod-1, got %q", id)
		}
	}

	if backend.calls != 1 {
		t.Errorf("expected 1 backend call, got %d", backend.calls)
	}
}

func TestProductIDCache_MissesAreCached(t *testing.T) {
	backend := &countingResolver{products: map[string]string{}}
	cache := NewProductIDCache(backend)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		id, err := cache.LookupProductIDForSKU(ctx, "sku-unknown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "" {
			t.Errorf("expected empty product ID, got %q", id)
		}
	}

	if backend.calls != 1 {
		t.Errorf("expected 1 backend call for a cached miss, got %d", backend.calls)
	}
}

func TestProductIDCache_ErrorsAreNotCached(t *testing.T) {
	backend := &countingResolver{err: errors.New("db down")}
	cache := NewProductIDCache(backend)
	ctx := context.Background()

	if _, err := cache.LookupProductIDForSKU(ctx, "sku-a"); err == nil {
		t.Fatal("expected error")
	}

	backend.mu.Lock()
	backend.err = nil
	backend.products = map[string]string{"sku-a": "prod-1"}
	backend.mu.Unlock()

	id, err := cache.LookupProductIDForSKU(ctx, "sku-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "prod-1" {
		t.Errorf("expected prod-1 after backend recovered, got %q", id)
	}
	if backend.calls != 2 {
		t.Errorf("expected 2 backend calls, got %d", backend.calls)
	}
}
