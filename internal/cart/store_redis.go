package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots in redis so carts survive process restarts and
// are shared across instances. A generous TTL bounds abandoned carts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: 24 * time.Hour}
}

func (s *RedisStore) Get(ctx context.Context, shopperID int) (Snapshot, error) {
	data, err := s.client.Get(ctx, cartKey(shopperID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNoCart
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis get failed: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) Put(ctx context.Context, shopperID int, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(shopperID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, shopperID int) error {
	if err := s.client.Del(ctx, cartKey(shopperID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(shopperID int) string {
	return fmt.Sprintf("cart:%d", shopperID)
}
