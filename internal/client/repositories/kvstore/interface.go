// Package kvstore declares the flat key-value contract backing the client's
// local state: the session blob and per-resource cache entries.
package kvstore

import "context"

type Store interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every stored key.
	Clear(ctx context.Context) error
}
