// internal/session/redis_store.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-client/internal/config"
)

// RedisStore keeps the token under a single Redis key. Used when the
// client runs server-side and the session must outlive one process.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed token store and verifies the
// connection before returning it
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Session.Redis.Password,
		DB:       cfg.Session.Redis.DB,

		// Connection timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: rdb,
		key:    cfg.Session.RedisKey,
	}, nil
}

// Load reads the persisted token. A missing key means no token.
func (s *RedisStore) Load() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	token, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from Redis: %w", err)
	}
	return token, nil
}

// Save writes the token without expiration; session lifetime is owned
// by the backend, not the cell.
func (s *RedisStore) Save(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to write token to Redis: %w", err)
	}
	return nil
}

// Clear removes the persisted token
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to remove token from Redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
