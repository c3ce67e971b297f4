package kv

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis client. TTL handling is delegated
// to Redis itself; Clear walks the namespace with SCAN so large namespaces
// never block the server with KEYS.
type RedisStore struct {
	rdb *redis.Client
}

// RedisStore implements Store (compile-time check).
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get returns the cached payload, treating any Redis error as a miss.
func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, bool) {
	b, err := s.rdb.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache read failed", "key", key.String(), "error", err)
		}
		return nil, false
	}
	return b, true
}

// Set stores the payload. Redis interprets a zero expiration as "no expiry",
// which matches the Store contract directly. Write errors are swallowed.
func (s *RedisStore) Set(ctx context.Context, key Key, payload []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, key.String(), payload, ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key.String(), "error", err)
	}
}

// Clear deletes every key in the namespace using an incremental SCAN.
func (s *RedisStore) Clear(ctx context.Context, namespace string) {
	pattern := namespacePattern(namespace)
	var cursor uint64
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			slog.Warn("cache clear failed", "namespace", namespace, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("cache clear failed", "namespace", namespace, "error", err)
				return
			}
		}
		cursor = cur
		if cursor == 0 {
			return
		}
	}
}
