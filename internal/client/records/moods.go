package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
)

// MoodStore persists the device-wide collection of mood check-ins, stored
// newest first.
type MoodStore struct {
	kv    storage.Store
	locks *keyLocker
	log   logging.Logger
}

// Append prepends entry and rewrites the collection in one Set.
//
// A stored collection that cannot be read or decoded aborts the append
// instead of being replaced.
func (s *MoodStore) Append(ctx context.Context, entry models.MoodEntry) error {
	if !entry.Mood.Valid() {
		return fmt.Errorf("%w: got %d", common.ErrInvalidMood, entry.Mood)
	}

	unlock := s.locks.lock(KeyMoodEntries)
	defer unlock()

	var entries []models.MoodEntry
	if _, err := readJSON(ctx, s.kv, KeyMoodEntries, &entries); err != nil {
		return err
	}

	for _, e := range entries {
		if e.ID == entry.ID {
			return fmt.Errorf("%w: %s", common.ErrDuplicateID, entry.ID)
		}
	}

	updated := make([]models.MoodEntry, 0, len(entries)+1)
	updated = append(updated, entry)
	updated = append(updated, entries...)

	if err := writeJSON(ctx, s.kv, KeyMoodEntries, updated); err != nil {
		return err
	}
	s.log.Debug(ctx, "mood entry appended", "id", entry.ID, "mood", int(entry.Mood), "total", len(updated))
	return nil
}

// ListAll returns every entry sorted by timestamp, newest first. Equal
// timestamps keep stored order. Read failures are logged and yield an
// empty slice.
func (s *MoodStore) ListAll(ctx context.Context) []models.MoodEntry {
	var entries []models.MoodEntry
	if _, err := readJSON(ctx, s.kv, KeyMoodEntries, &entries); err != nil {
		s.log.Warn(ctx, "reading mood entries failed, returning empty list", "error", err)
		return []models.MoodEntry{}
	}
	if entries == nil {
		return []models.MoodEntry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries
}

// ListRecent returns at most n entries from the front of ListAll.
func (s *MoodStore) ListRecent(ctx context.Context, n int) ([]models.MoodEntry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", common.ErrInvalidLimit, n)
	}
	all := s.ListAll(ctx)
	if n > len(all) {
		n = len(all)
	}
	return all[:n], nil
}

// ClearAll removes every entry. Clearing an empty store succeeds.
func (s *MoodStore) ClearAll(ctx context.Context) error {
	unlock := s.locks.lock(KeyMoodEntries)
	defer unlock()

	if err := s.kv.Remove(ctx, KeyMoodEntries); err != nil {
		return common.NewStorageError("remove", KeyMoodEntries, err)
	}
	s.log.Info(ctx, "mood entries cleared")
	return nil
}
