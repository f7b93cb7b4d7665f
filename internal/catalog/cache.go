package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis helpers for cached product documents. A nil client is
// valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return "product:" + id
}

// Get unmarshals a cached product. It reports whether the key existed.
func (c *Cache) Get(ctx context.Context, id string, dst *Product) (bool, error) {
	if c == nil || c.client == nil || id == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a product with the configured TTL.
func (c *Cache) Set(ctx context.Context, id string, p Product) error {
	if c == nil || c.client == nil || id == "" || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(id), data, c.ttl).Err()
}
