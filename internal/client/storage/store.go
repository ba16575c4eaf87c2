// Package storage implements the device-local key-value substrate that the
// record store persists its JSON collections into.
//
// A Store maps string keys to opaque byte values. Get returns (nil, nil) for
// an absent key and Remove is idempotent. Three implementations exist:
// SQLiteStore (default, on-disk), RedisStore (shared or ephemeral setups) and
// EncryptedStore, which seals values with AES-GCM before delegating.
package storage

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically where the backend allows it.
	SetMany(ctx context.Context, values map[string][]byte) error
	Remove(ctx context.Context, key string) error
}
