package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopd/go-order-fulfillment/internal/orders"
	"github.com/shopd/go-order-fulfillment/internal/redisx"
)

// Cache is the minimal key-value surface the cached catalog needs.
// Implemented by RedisCache in production and by fakes in tests.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisCache struct{ RDB *redis.Client }

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := c.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.RDB.Set(ctx, key, value, ttl).Err()
}

// ProductResolver is the lookup a CachedCatalog wraps.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, id string) (orders.Product, error)
}

// CachedCatalog is a read-through cache in front of a product lookup.
// Cache trouble degrades to the underlying lookup; it never fails a
// resolve on its own. Misses (ErrNotFound) are not cached, so a product
// created after a failed order is visible immediately.
type CachedCatalog struct {
	Inner ProductResolver
	Cache Cache
	TTL   time.Duration
}

func (c *CachedCatalog) ResolveProduct(ctx context.Context, id string) (orders.Product, error) {
	key := fmt.Sprintf(redisx.KeyCatalogProduct, id)

	if s, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
		var p orders.Product
		if err := json.Unmarshal([]byte(s), &p); err == nil {
			return p, nil
		}
	} else if err != nil {
		log.Printf("catalog cache get %s: %v", id, err)
	}

	p, err := c.Inner.ResolveProduct(ctx, id)
	if err != nil {
		return orders.Product{}, err
	}

	if b, err := json.Marshal(p); err == nil {
		ttl := c.TTL
		if ttl <= 0 {
			ttl = redisx.TTLCatalogCache
		}
		if err := c.Cache.Set(ctx, key, string(b), ttl); err != nil {
			log.Printf("catalog cache set %s: %v", id, err)
		}
	}
	return p, nil
}
