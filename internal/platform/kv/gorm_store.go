package kv

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheRecord is the persisted envelope for one cache entry. ExpiresAt nil
// means the entry never expires. Rows outlive the process, so the store
// doubles as the durable cache tier when Redis is unavailable.
type CacheRecord struct {
	Key       string `gorm:"column:cache_key;primaryKey;size:512"`
	Payload   []byte
	CreatedAt time.Time
	ExpiresAt *time.Time `gorm:"index"`
}

// TableName keeps the table name stable regardless of GORM pluralization.
func (CacheRecord) TableName() string { return "cache_records" }

// GormStore implements Store on a relational database via GORM.
//
// Expiry is lazy: an expired row is treated as absent by the reader that
// observes it and deleted best-effort in passing. There is no background
// sweep; a failed delete only means the next reader tries again.
type GormStore struct {
	db *gorm.DB

	// now is swappable for tests.
	now func() time.Time
}

// GormStore implements Store (compile-time check).
var _ Store = (*GormStore)(nil)

// NewGormStore creates a Store backed by the given database connection.
// The CacheRecord table must have been migrated by the caller.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// Get returns the payload for key, deleting the row in passing when its
// expiry has passed. Database errors read as a miss.
func (s *GormStore) Get(ctx context.Context, key Key) ([]byte, bool) {
	var rec CacheRecord
	err := s.db.WithContext(ctx).Where("cache_key = ?", key.String()).First(&rec).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			slog.Warn("cache read failed", "key", key.String(), "error", err)
		}
		return nil, false
	}

	if rec.ExpiresAt != nil && !rec.ExpiresAt.After(s.now()) {
		// Lazy expiry: the reader that sees a dead entry removes it. A
		// failed delete must not fail the read.
		if err := s.db.WithContext(ctx).Delete(&CacheRecord{}, "cache_key = ?", rec.Key).Error; err != nil {
			slog.Warn("expired cache delete failed", "key", rec.Key, "error", err)
		}
		return nil, false
	}

	return rec.Payload, true
}

// Set upserts the entry. A ttl of zero or less stores without expiry.
// Write errors are swallowed.
func (s *GormStore) Set(ctx context.Context, key Key, payload []byte, ttl time.Duration) {
	rec := CacheRecord{
		Key:       key.String(),
		Payload:   payload,
		CreatedAt: s.now(),
	}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		rec.ExpiresAt = &exp
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		slog.Warn("cache write failed", "key", key.String(), "error", err)
	}
}

// Clear deletes every entry in the namespace, best effort.
func (s *GormStore) Clear(ctx context.Context, namespace string) {
	pattern := safe(namespace) + ":%"
	if err := s.db.WithContext(ctx).Delete(&CacheRecord{}, "cache_key LIKE ?", pattern).Error; err != nil {
		slog.Warn("cache clear failed", "namespace", namespace, "error", err)
	}
}
