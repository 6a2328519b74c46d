// Package metadata caches lookups against external metadata sources in
// SQLite so they survive restarts.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache is a key/value store with per-entry expiry, backed by the
// metadata_cache table.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// NewCache creates a new metadata cache.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Get retrieves a cached value by key. Missing and expired entries both
// report false; only database failures return an error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	var expiresAt int64

	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_unix FROM metadata_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if c.now().Unix() >= expiresAt {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Set stores a value with the given TTL, replacing any previous entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := c.now().Add(ttl).Unix()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (key, value, expires_unix)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_unix = excluded.expires_unix`,
		key, string(value), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached value.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune removes all expired entries and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM metadata_cache WHERE expires_unix <= ?", c.now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}
