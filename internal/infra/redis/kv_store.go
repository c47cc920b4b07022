package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// KVStore is a Redis-backed implementation of app.KVStore. Keys are namespaced with
// prefix so several apps can share a database.
type KVStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewKVStore builds a store; ttl <= 0 keeps documents forever.
func NewKVStore(client *redis.Client, prefix string, ttl time.Duration) *KVStore {
	return &KVStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *KVStore) key(key string) string {
	return s.prefix + key
}
