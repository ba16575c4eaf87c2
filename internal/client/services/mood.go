package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/records"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/google/uuid"
)

// DefaultHistoryLimit is how many check-ins the history view shows.
const DefaultHistoryLimit = 7

const MaxNoteLength = 100

var ErrBackupDisabled = errors.New("backup storage not configured")

// Uploader stores a blob under key; backup.S3Uploader implements it.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// Summary aggregates check-ins over a period.
type Summary struct {
	Count   int
	Average float64
	ByMood  map[models.Mood]int
	Latest  *models.MoodEntry
}

type MoodService interface {
	Record(ctx context.Context, mood models.Mood, note string) (*models.MoodEntry, error)
	History(ctx context.Context, limit int) ([]models.MoodEntry, error)
	All(ctx context.Context) []models.MoodEntry
	Clear(ctx context.Context) error
	Summary(ctx context.Context, since time.Time) Summary
	Backup(ctx context.Context) (string, error)
}

type moodInput struct {
	Mood int    `validate:"gte=1,lte=5"`
	Note string `validate:"max=100"`
}

type backupDocument struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Count      int                `json:"count"`
	Entries    []models.MoodEntry `json:"entries"`
}

type moodService struct {
	store    *records.MoodStore
	uploader Uploader
	now      func() time.Time
	log      logging.Logger
}

// NewMoodService wires the service. uploader may be nil, which disables Backup.
func NewMoodService(store *records.MoodStore, uploader Uploader, logger logging.Logger) MoodService {
	return &moodService{
		store:    store,
		uploader: uploader,
		now:      time.Now,
		log:      logger.With("service", "mood"),
	}
}

func (s *moodService) Record(ctx context.Context, mood models.Mood, note string) (*models.MoodEntry, error) {
	note = strings.TrimSpace(note)
	if err := validateStruct(moodInput{Mood: int(mood), Note: note}); err != nil {
		if !mood.Valid() {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidMood, err)
		}
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate entry id: %w", err)
	}

	entry := models.NewMoodEntry(id.String(), mood, note, s.now())
	if err := s.store.Append(ctx, entry); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "mood recorded", "id", entry.ID, "mood", int(mood))
	return &entry, nil
}

// History returns the newest check-ins. A zero limit means DefaultHistoryLimit.
func (s *moodService) History(ctx context.Context, limit int) ([]models.MoodEntry, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.ListRecent(ctx, limit)
}

func (s *moodService) All(ctx context.Context) []models.MoodEntry {
	return s.store.ListAll(ctx)
}

func (s *moodService) Clear(ctx context.Context) error {
	return s.store.ClearAll(ctx)
}

// Summary covers entries stamped at or after since.
func (s *moodService) Summary(ctx context.Context, since time.Time) Summary {
	sum := Summary{ByMood: make(map[models.Mood]int, int(models.MaxMood))}
	cutoff := since.UnixMilli()
	total := 0

	for _, e := range s.store.ListAll(ctx) {
		if e.Timestamp < cutoff {
			continue
		}
		if sum.Latest == nil {
			latest := e
			sum.Latest = &latest
		}
		sum.Count++
		sum.ByMood[e.Mood]++
		total += int(e.Mood)
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum
}

// Backup uploads every entry as one JSON document and returns its key.
func (s *moodService) Backup(ctx context.Context) (string, error) {
	if s.uploader == nil {
		return "", ErrBackupDisabled
	}

	now := s.now().UTC()
	entries := s.store.ListAll(ctx)
	body, err := json.Marshal(backupDocument{ExportedAt: now, Count: len(entries), Entries: entries})
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	key := fmt.Sprintf("moodtrack/backups/%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()[:8])
	if err := s.uploader.Upload(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	s.log.Info(ctx, "backup uploaded", "key", key, "entries", len(entries))
	return key, nil
}
