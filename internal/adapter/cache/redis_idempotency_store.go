package cache

import (
	"context"
	"time"

	"github.com/AutomationAlchemyst/balangconnect/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// Key layout: balang:idem:<scope>:<key> holds the in-flight lock,
// balang:idem:id:<scope>:<key> maps a settled key to its order id.
const (
	lockPrefix = "balang:idem:"
	idPrefix   = "balang:idem:id:"
)

type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, lockPrefix+scope+":"+key, "1", s.ttl).Result()
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, idPrefix+scope+":"+key, value, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, idPrefix+scope+":"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	return val, true, err
}

var _ usecase.IdempotencyStore = (*RedisIdempotencyStore)(nil)
