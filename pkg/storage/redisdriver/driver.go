// Package redisdriver persists key-value entries in Redis so carts survive
// restarts and are shared between API instances.
package redisdriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/angelmondragon/restaurant-backend/pkg/redis"
	"github.com/angelmondragon/restaurant-backend/pkg/storage"
)

type client interface {
	GetEx(ctx context.Context, key string, ttl time.Duration) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	StorageKey(key string) string
}

var _ client = (*pkgredis.Client)(nil)

type Store struct {
	client client
	ttl    time.Duration
}

// New returns a Redis-backed store. With a positive ttl every read and write
// pushes expiry out again, so only abandoned carts expire. A zero ttl keeps
// entries until deleted.
func New(c *pkgredis.Client, ttl time.Duration) (*Store, error) {
	if c == nil {
		return nil, errors.New("redis client required")
	}
	return &Store{client: c, ttl: ttl}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.GetEx(ctx, s.client.StorageKey(key), s.ttl)
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.client.StorageKey(key), value, s.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.client.StorageKey(key)); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
