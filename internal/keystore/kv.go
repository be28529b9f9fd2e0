// Package keystore provides the namespaced JSON key/value persistence layer.
// Every slice of application state lives under its own key beneath a
// versioned prefix; reads fall back to a caller-supplied default instead of
// failing, and writes are fire-and-forget from the caller's perspective.
package keystore

import "context"

// KV is the storage primitive the keyed store runs on. Implementations:
// Redis and a single-table Postgres fallback.
type KV interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	// Keys lists every stored key beginning with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
