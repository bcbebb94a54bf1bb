package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:snapshot"

// RedisCatalogCache keeps the last good catalog read so a content-source
// outage serves stale data instead of nothing.
type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCatalogCache) Save(ctx context.Context, cat *catalog.Catalog) error {
	b, err := json.Marshal(cat)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey, b, c.ttl).Err()
}

func (c *RedisCatalogCache) Load(ctx context.Context) (*catalog.Catalog, bool, error) {
	b, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var cat catalog.Catalog
	if err := json.Unmarshal(b, &cat); err != nil {
		return nil, false, err
	}
	return &cat, true, nil
}

var _ catalog.SnapshotStore = (*RedisCatalogCache)(nil)
