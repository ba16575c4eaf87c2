package records

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk unavailable")

// fakeKV is an in-memory storage.Store with switchable failures.
type fakeKV struct {
	mu         sync.Mutex
	data       map[string][]byte
	failGet    bool
	failSet    bool
	failRemove bool
	sets       int
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errDisk
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errDisk
	}
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeKV) SetMany(_ context.Context, values map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errDisk
	}
	f.sets++
	for k, v := range values {
		f.data[k] = v
	}
	return nil
}

func (f *fakeKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemove {
		return errDisk
	}
	delete(f.data, key)
	return nil
}

func newFakeStore(t *testing.T) (*Store, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	return New(kv, logging.NewNop()), kv
}

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	kv, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return New(kv, logging.NewNop())
}
