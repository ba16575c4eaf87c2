package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "moodtrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	assert.True(t, tableExists(t, s.db, "kv"))
	assert.True(t, tableExists(t, s.db, "goose_db_version"))

	require.NoError(t, RunMigrations(context.Background(), s.db), "second run must be a no-op")
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "mood_entries", []byte(`[]`)))

	v, err := s.Get(ctx, "mood_entries")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)
}

func TestSQLiteStore_GetAbsentReturnsNilNil(t *testing.T) {
	s := openTestStore(t)

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLiteStore_SetMany(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		"users":       []byte(`[{"id":"1"}]`),
		"credentials": []byte(`{}`),
	}))

	users, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(users))
	creds, err := s.Get(ctx, "credentials")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(creds))
}

func TestSQLiteStore_RemoveIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "currentUser", []byte(`{}`)))
	require.NoError(t, s.Remove(ctx, "currentUser"))
	require.NoError(t, s.Remove(ctx, "currentUser"))

	v, err := s.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_ClosedDBErrors(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	require.Error(t, s.Set(ctx, "k", []byte("v")))
	require.Error(t, s.SetMany(ctx, map[string][]byte{"k": []byte("v")}))
	require.Error(t, s.Remove(ctx, "k"))
}

func TestWithBusyTimeout(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", withBusyTimeout("a.db"))
	assert.Equal(t, "a.db?mode=rw&_pragma=busy_timeout(5000)", withBusyTimeout("a.db?mode=rw"))
	assert.Equal(t, "a.db?_pragma=busy_timeout(10)", withBusyTimeout("a.db?_pragma=busy_timeout(10)"))
}
