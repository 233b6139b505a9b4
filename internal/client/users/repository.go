// Package users implements the profile repository: a remote source fronted
// by the local TTL cache. Reads inside the expiry window never touch the
// network; writes go remote-first and then update or invalidate the cache.
package users

import (
	"context"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/client/api"
	"github.com/avolkovs/sessionkeeper/internal/client/cache"
	"github.com/avolkovs/sessionkeeper/internal/client/models"
)

// cacheKey scopes the profile entry inside the shared key-value store.
const cacheKey = "users/profile"

// DefaultCacheTTL is used when the configured TTL is zero.
const DefaultCacheTTL = 5 * time.Minute

// Repository is the technology-agnostic contract for the user profile
// resource.
type Repository interface {
	Get(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context) error
	Invalidate(ctx context.Context) error
}

// CachedRepository backs Repository with the remote API and a local cache.
type CachedRepository struct {
	remote api.Client
	cache  *cache.Cache
	ttl    time.Duration
}

// NewCachedRepository constructs a repository with the given expiry window;
// ttl <= 0 falls back to DefaultCacheTTL.
func NewCachedRepository(remote api.Client, c *cache.Cache, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{remote: remote, cache: c, ttl: ttl}
}

// Get returns the cached profile when present and unexpired, otherwise
// fetches it remotely and writes it through.
func (r *CachedRepository) Get(ctx context.Context) (*models.User, error) {
	var cached models.User
	hit, err := r.cache.Get(ctx, cacheKey, r.ttl, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		return &cached, nil
	}

	user, err := r.remote.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update sends the change remotely and, on success, replaces the cache
// entry with the server's view. No speculative local write happens first.
func (r *CachedRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	updated, err := r.remote.UpdateProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the profile remotely and drops the cache entry.
func (r *CachedRepository) Delete(ctx context.Context) error {
	if err := r.remote.DeleteProfile(ctx); err != nil {
		return err
	}
	return r.cache.Invalidate(ctx, cacheKey)
}

// Invalidate drops the cache entry without a remote call, e.g. on logout.
func (r *CachedRepository) Invalidate(ctx context.Context) error {
	return r.cache.Invalidate(ctx, cacheKey)
}
