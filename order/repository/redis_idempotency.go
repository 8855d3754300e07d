package repository

import (
	"context"
	"fmt"
	"time"

	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/go-redis/redis/v8"
)

// RedisIdempotencyGuard remembers checkout keys for ttl.
type RedisIdempotencyGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyGuard(rdb *redis.Client, ttl time.Duration) orderpkg.IdempotencyGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyGuard{rdb: rdb, ttl: ttl}
}

func idempotencyKey(key string) string { return fmt.Sprintf("idempotent-key:%s", key) }

func (g *RedisIdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, idempotencyKey(key), "exists", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}
	return ok, nil
}

func (g *RedisIdempotencyGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, idempotencyKey(key)).Err()
}
