package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tenderwright:session:"

// RedisStore is a Store backed by Redis. Sessions are stored as JSON values
// with the TTL applied as key expiry; a TTL of zero stores keys without
// expiry. Update uses SET XX so a deleted or expired session is never
// resurrected by a stale writer.
type RedisStore[S any] struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore on the given client.
func NewRedisStore[S any](client *redis.Client, ttl time.Duration) *RedisStore[S] {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore[S]{client: client, ttl: ttl}
}

// Ping verifies connectivity; used as a startup readiness check.
func (s *RedisStore[S]) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore[S]) Create(ctx context.Context, state S) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, redisKeyPrefix+id, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

func (s *RedisStore[S]) Get(ctx context.Context, id string) (S, error) {
	var state S

	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return state, ErrNotFound
		}
		return state, fmt.Errorf("load session %s: %w", id, err)
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, nil
}

func (s *RedisStore[S]) Update(ctx context.Context, id string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ok, err := s.client.SetXX(ctx, redisKeyPrefix+id, data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store session %s: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore[S]) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
