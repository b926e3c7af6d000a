package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store implements kv.Store on Redis, scoped to a namespace.
type Store struct {
	rdb       *redis.Client
	namespace string
}

// NewStore creates a namespaced key-value store.
func NewStore(c *Client, namespace string) *Store {
	return &Store{rdb: c.rdb, namespace: namespace}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, storeKey(s.namespace, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, storeKey(s.namespace, key), value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, storeKey(s.namespace, key)).Err()
}
