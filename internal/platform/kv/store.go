// Package kv provides the namespaced key/value cache used by the features.
//
// Two implementations exist: a Redis front (native TTL handling) and a
// GORM-backed durable store that survives process restarts and expires
// entries lazily on read. Cache failures are never fatal: reads degrade to
// a miss and writes to a no-op, logged at warn level.
package kv

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Key identifies one cache entry. Namespace separates unrelated data classes,
// Version makes schema changes an explicit cache invalidation, and ID is the
// entity identifier (typically a security code).
type Key struct {
	Namespace string
	ID        string
	Version   int
}

// String renders the storage key as "namespace:v<version>:id".
func (k Key) String() string {
	return fmt.Sprintf("%s:v%d:%s", safe(k.Namespace), k.Version, safe(k.ID))
}

// Store is the cache contract shared by every feature.
//
// Get returns the payload and true on a live hit; expired or missing entries
// and storage errors all read as a miss. Set stores the payload for ttl; a
// ttl of zero or less stores without expiry. Clear drops every entry in a
// namespace, best effort.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, bool)
	Set(ctx context.Context, key Key, payload []byte, ttl time.Duration)
	Clear(ctx context.Context, namespace string)
}

// namespacePattern returns the match pattern covering every key in ns.
func namespacePattern(ns string) string {
	return safe(ns) + ":*"
}

// safe escapes characters that are problematic in storage keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
