// Package cache layers a time-based expiry policy over the flat key-value
// store. Each entry is stored as a JSON envelope carrying the payload and
// the time it was written; an entry older than the caller's TTL is treated
// as a miss and removed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/client/repositories/kvstore"
)

// envelope wraps a cached payload with its write timestamp.
type envelope struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

type Cache struct {
	store kvstore.Store

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

func New(store kvstore.Store) *Cache {
	return &Cache{store: store, now: time.Now}
}

// Get loads the entry under key into dest if it exists and is younger than
// ttl. It returns false on a miss; expired entries are deleted and count as
// a miss.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, dest any) (bool, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Unreadable entries are dropped rather than surfaced.
		_ = c.store.Delete(ctx, key)
		return false, nil
	}

	if c.now().Sub(env.StoredAt) > ttl {
		if err := c.store.Delete(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := json.Unmarshal(env.Payload, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the current timestamp.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	data, err := json.Marshal(envelope{Payload: payload, StoredAt: c.now()})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data)
}

// Invalidate removes the entry under key, if any.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}
