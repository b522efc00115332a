// Package redis provides a Redis-backed store for persisted client state.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gpse/sesam-client/internal/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces client state keys.
const DefaultPrefix = "sesam:client:"

// KVStore keeps the persisted token and preferences in Redis so several
// client processes (kiosk terminals) share one session.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.KeyValueStore = (*KVStore)(nil)

// KVStoreOptions configures a KVStore.
type KVStoreOptions struct {
	Prefix string
	// TTL bounds how long a value survives without being rewritten. Zero keeps values forever.
	TTL time.Duration
}

// NewKVStore creates a Redis-backed key-value store.
func NewKVStore(client redis.UniversalClient, opts KVStoreOptions) *KVStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KVStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrKeyNotFound
	}
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	if n == 0 {
		return ports.ErrKeyNotFound
	}
	return nil
}
