package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/HassanMahra/HealthAppProject/internal/cryptox"
)

var ErrInvalidKey = errors.New("storage key must be 32 bytes hex-encoded")

// EncryptedStore seals every value with AES-GCM before handing it to the
// wrapped Store. Keys are stored in the clear.
type EncryptedStore struct {
	inner Store
	key   []byte
}

func NewEncryptedStore(inner Store, key []byte) (*EncryptedStore, error) {
	if len(key) != cryptox.KeySize {
		return nil, ErrInvalidKey
	}
	return &EncryptedStore{inner: inner, key: key}, nil
}

// ParseKey decodes a hex-encoded 256-bit storage key.
func ParseKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil || len(key) != cryptox.KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

func (e *EncryptedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return sealed, err
	}
	plain, err := cryptox.Open(sealed, e.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt kv[%s]: %w", key, err)
	}
	return plain, nil
}

func (e *EncryptedStore) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(value, e.key)
	if err != nil {
		return fmt.Errorf("encrypt kv[%s]: %w", key, err)
	}
	return e.inner.Set(ctx, key, sealed)
}

func (e *EncryptedStore) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for key, value := range values {
		s, err := cryptox.Seal(value, e.key)
		if err != nil {
			return fmt.Errorf("encrypt kv[%s]: %w", key, err)
		}
		sealed[key] = s
	}
	return e.inner.SetMany(ctx, sealed)
}

func (e *EncryptedStore) Remove(ctx context.Context, key string) error {
	return e.inner.Remove(ctx, key)
}
