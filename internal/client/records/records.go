// Package records is the typed record store layered over storage.Store.
//
// Each collection lives as one JSON document under a fixed key. Reads fail
// open: a missing, unreadable or undecodable collection reads as empty and
// the failure is logged. Mutations go through a per-key writer lock so a
// read-modify-write of a collection is a single critical section.
package records

import (
	"context"
	"encoding/json"

	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
)

// Fixed storage keys.
const (
	KeyMoodEntries = "mood_entries"
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeyCredentials = "credentials"
)

// Store groups the record collections that share one substrate and one
// set of writer locks.
type Store struct {
	Moods    *MoodStore
	Accounts *AccountStore
	Session  *Session
}

// New returns a Store backed by kv. Read failures are logged through logger.
func New(kv storage.Store, logger logging.Logger) *Store {
	locks := newKeyLocker()
	return &Store{
		Moods:    &MoodStore{kv: kv, locks: locks, log: logger.With("collection", KeyMoodEntries)},
		Accounts: &AccountStore{kv: kv, locks: locks, log: logger.With("collection", KeyUsers)},
		Session:  &Session{kv: kv, locks: locks, log: logger.With("collection", KeyCurrentUser)},
	}
}

// readJSON loads key into v. found is false when the key is absent.
func readJSON(ctx context.Context, kv storage.Store, key string, v any) (found bool, err error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return false, common.NewStorageError("get", key, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, common.NewStorageError("decode", key, err)
	}
	return true, nil
}

func encodeJSON(key string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, common.NewStorageError("encode", key, err)
	}
	return b, nil
}

func writeJSON(ctx context.Context, kv storage.Store, key string, v any) error {
	b, err := encodeJSON(key, v)
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return common.NewStorageError("set", key, err)
	}
	return nil
}
