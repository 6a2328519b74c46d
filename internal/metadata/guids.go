package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// DefaultGUIDTTL is how long resolved Plex GUIDs are trusted.
const DefaultGUIDTTL = 6 * time.Hour

// MediaIDs are the external ids resolved for one library item.
type MediaIDs struct {
	TMDBID int64  `json:"tmdb_id,omitempty"`
	TVDBID int64  `json:"tvdb_id,omitempty"`
	IMDBID string `json:"imdb_id,omitempty"`
	Hama   bool   `json:"hama,omitempty"`
}

// GUIDCache remembers the ids resolved for Plex items that use the new
// plex:// agents, keyed by rating key.
type GUIDCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewGUIDCache creates a GUID cache on top of c.
func NewGUIDCache(c *Cache, ttl time.Duration) *GUIDCache {
	if ttl <= 0 {
		ttl = DefaultGUIDTTL
	}
	return &GUIDCache{cache: c, ttl: ttl}
}

func guidKey(ratingKey string) string { return "plexguid:" + ratingKey }

// Get returns the cached ids for a rating key.
func (g *GUIDCache) Get(ctx context.Context, ratingKey string) (MediaIDs, bool, error) {
	raw, ok, err := g.cache.Get(ctx, guidKey(ratingKey))
	if err != nil || !ok {
		return MediaIDs{}, false, err
	}
	var ids MediaIDs
	if err := json.Unmarshal(raw, &ids); err != nil {
		return MediaIDs{}, false, fmt.Errorf("decode cached guids for %s: %w", ratingKey, err)
	}
	return ids, true, nil
}

// Set caches the ids for a rating key.
func (g *GUIDCache) Set(ctx context.Context, ratingKey string, ids MediaIDs) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode guids: %w", err)
	}
	return g.cache.Set(ctx, guidKey(ratingKey), raw, g.ttl)
}
