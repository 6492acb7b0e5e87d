package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds configuration for a Redis-backed store
type RedisConfig struct {
	RedisClient *redis.Client
	KeyPrefix   string
	TTL         time.Duration
}

// RedisStore keeps JSON-encoded values in Redis with a key expiry equal to the TTL.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store and verifies the connection
func NewRedisStore[T any](ctx context.Context, cfg *RedisConfig) (*RedisStore[T], error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore[T]{
		client: cfg.RedisClient,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
	}, nil
}

func (s *RedisStore[T]) key(key string) string {
	return s.prefix + key
}

// Register stores or overwrites the value and resets its expiry.
func (s *RedisStore[T]) Register(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// RegisterIfAbsent stores the value with SET NX, leaving a live key untouched.
func (s *RedisStore[T]) RegisterIfAbsent(ctx context.Context, key string, value T) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal value: %w", err)
	}
	stored, err := s.client.SetNX(ctx, s.key(key), data, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store %s: %w", key, err)
	}
	return stored, nil
}

// Retrieve returns the value for key, or false when absent or expired.
func (s *RedisStore[T]) Retrieve(ctx context.Context, key string) (T, bool, error) {
	var value T
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("failed to retrieve %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return value, true, nil
}

// Remove evicts key immediately.
func (s *RedisStore[T]) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
