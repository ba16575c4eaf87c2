// Package keychain emulates a platform secure-credential slot: one named
// service holding at most one (account, secret) pair.
package keychain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
)

// DefaultService names the slot the client uses when none is configured.
const DefaultService = "HealthApp"

// Keychain is a single credential slot persisted in a storage.Store.
type Keychain struct {
	kv  storage.Store
	key string
}

// New returns the slot named service, stored in kv.
func New(kv storage.Store, service string) *Keychain {
	if service == "" {
		service = DefaultService
	}
	return &Keychain{kv: kv, key: "keychain:" + service}
}

// Save overwrites the slot.
func (k *Keychain) Save(ctx context.Context, account, secret string) error {
	b, err := json.Marshal(models.Credential{Account: account, Secret: secret})
	if err != nil {
		return err
	}
	if err := k.kv.Set(ctx, k.key, b); err != nil {
		return fmt.Errorf("keychain save: %w", err)
	}
	return nil
}

// Retrieve returns the stored credential, or nil when the slot is empty.
func (k *Keychain) Retrieve(ctx context.Context) (*models.Credential, error) {
	raw, err := k.kv.Get(ctx, k.key)
	if err != nil {
		return nil, fmt.Errorf("keychain retrieve: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var c models.Credential
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("keychain decode: %w", err)
	}
	return &c, nil
}

// Reset empties the slot.
func (k *Keychain) Reset(ctx context.Context) error {
	if err := k.kv.Remove(ctx, k.key); err != nil {
		return fmt.Errorf("keychain reset: %w", err)
	}
	return nil
}
