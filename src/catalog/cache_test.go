package catalog

import (
	"context"
	"errors"
	"testing"
)

type mapCache struct {
	products map[string]Product
	gets     int
	puts     int
}

func newMapCache() *mapCache {
	return &mapCache{products: make(map[string]Product)}
}

func (m *mapCache) Get(ctx context.Context, productID string) (Product, error) {
	m.gets++
	p, ok := m.products[productID]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (m *mapCache) Put(ctx context.Context, p Product) error {
	m.puts++
	m.products[p.ProductID] = p
	return nil
}

func (m *mapCache) Close() error { return nil }

func TestCachedStoreGetMissBackfills(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	cache := newMapCache()
	cached := &CachedStore{Store: store, cache: cache}
	ctx := context.Background()

	p, err := cached.Get(ctx, "tv-lg-c3-55")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Brand != "LG" {
		t.Errorf("Brand = %q, want LG", p.Brand)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1 backfill", cache.puts)
	}
	if _, ok := cache.products["tv-lg-c3-55"]; !ok {
		t.Error("product not backfilled into the cache")
	}
}

func TestCachedStoreGetHitSkipsStore(t *testing.T) {
	store := newTestStore(t)
	cache := newMapCache()
	cache.products["tv-lg-c3-55"] = Product{ProductID: "tv-lg-c3-55", Brand: "LG"}
	cached := &CachedStore{Store: store, cache: cache}

	// The table store is empty, so this can only come from the cache.
	p, err := cached.Get(context.Background(), "tv-lg-c3-55")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Brand != "LG" {
		t.Errorf("Brand = %q, want LG", p.Brand)
	}
	if cache.puts != 0 {
		t.Errorf("cache puts = %d, want 0 on a hit", cache.puts)
	}
}

func TestCachedStoreGetUnknown(t *testing.T) {
	store := newTestStore(t)
	cached := &CachedStore{Store: store, cache: newMapCache()}

	_, err := cached.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
