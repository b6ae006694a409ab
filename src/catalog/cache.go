package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ProductCache mirrors loaded rows into Redis, keyed by product id, so the
// serving side can fetch single products without touching the table store.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache connects and pings a Redis instance.
func NewProductCache(ctx context.Context, addr, password string, db int) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info("catalog: connected to redis cache")
	return &ProductCache{client: client, ttl: 24 * time.Hour}, nil
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// Put stores one product as JSON.
func (c *ProductCache) Put(ctx context.Context, p Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product %s: %w", p.ProductID, err)
	}
	if err := c.client.Set(ctx, cacheKey(p.ProductID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache product %s: %w", p.ProductID, err)
	}
	return nil
}

// Get fetches a cached product; ErrProductNotFound when absent.
func (c *ProductCache) Get(ctx context.Context, productID string) (Product, error) {
	raw, err := c.client.Get(ctx, cacheKey(productID)).Bytes()
	if err == redis.Nil {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("fetch cached product %s: %w", productID, err)
	}
	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, fmt.Errorf("decode cached product %s: %w", productID, err)
	}
	return p, nil
}

// Close releases the Redis client.
func (c *ProductCache) Close() error {
	return c.client.Close()
}

// CacheFromEnv connects the Redis cache when REDIS_HOST is set. Returns
// (nil, nil) when it is not, so callers can skip caching entirely.
func CacheFromEnv(ctx context.Context) (*ProductCache, error) {
	addr := os.Getenv("REDIS_HOST")
	if addr == "" {
		return nil, nil
	}
	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_DB: %w", err)
		}
		db = parsed
	}
	return NewProductCache(ctx, addr, os.Getenv("REDIS_PASSWORD"), db)
}

// productCache is the cache surface CachedStore depends on.
type productCache interface {
	Get(ctx context.Context, productID string) (Product, error)
	Put(ctx context.Context, p Product) error
	Close() error
}

// CachedStore answers single-product lookups from the cache first and falls
// back to the table store, backfilling the cache on a miss. All other Store
// operations pass through.
type CachedStore struct {
	Store
	cache productCache
}

// NewCachedStore wraps a table store with the Redis cache.
func NewCachedStore(store Store, cache *ProductCache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

func (s *CachedStore) Get(ctx context.Context, productID string) (Product, error) {
	p, err := s.cache.Get(ctx, productID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProductNotFound) {
		log.Warnf("catalog: cache lookup for %s failed: %v", productID, err)
	}
	p, err = s.Store.Get(ctx, productID)
	if err != nil {
		return Product{}, err
	}
	if err := s.cache.Put(ctx, p); err != nil {
		log.Warnf("catalog: cache backfill for %s failed: %v", productID, err)
	}
	return p, nil
}

// Close releases the cache and the wrapped store.
func (s *CachedStore) Close() error {
	cerr := s.cache.Close()
	serr := s.Store.Close()
	if serr != nil {
		return serr
	}
	return cerr
}
