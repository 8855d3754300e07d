package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Store persists one cart per user.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Save(ctx context.Context, userID uuid.UUID, items []Item) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RedisStore keeps each cart as a JSON document under cart:<user id>,
// refreshing the TTL on every write.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID uuid.UUID) string { return fmt.Sprintf("cart:%s", userID) }

func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, items []Item) error {
	if len(items) == 0 {
		return s.Delete(ctx, userID)
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(userID), raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID][]Item)}
}

func (s *MemoryStore) Load(_ context.Context, userID uuid.UUID) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.carts[userID]...), nil
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = append([]Item(nil), items...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
