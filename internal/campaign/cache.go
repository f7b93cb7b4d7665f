package campaign

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis helpers for cached campaign documents. A nil client is
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
	return "campaign:" + id
}

// Get unmarshals a cached campaign record. It reports whether the key existed.
func (c *Cache) Get(ctx context.Context, id string, dst *Record) (bool, error) {
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

// Set stores a campaign record with the configured TTL.
func (c *Cache) Set(ctx context.Context, id string, rec Record) error {
	if c == nil || c.client == nil || id == "" || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(id), data, c.ttl).Err()
}

// Delete drops a cached campaign, typically after a write.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if c == nil || c.client == nil || id == "" {
		return nil
	}
	return c.client.Del(ctx, cacheKey(id)).Err()
}
