package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/dbx"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/HassanMahra/HealthAppProject/internal/server/events"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/repomanager"
)

const defaultProvider = "email"

type ProfileService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	log         logging.Logger
	now         func() time.Time
}

func NewProfileService(db dbx.DBTX, m repomanager.RepositoryManager, p events.Publisher, logger logging.Logger) *ProfileService {
	if p == nil {
		p = events.NewNoop()
	}
	return &ProfileService{
		db:          db,
		repomanager: m,
		publisher:   p,
		log:         logger.With("service", "profiles"),
		now:         time.Now,
	}
}

// Upsert creates the profile for uid if there is none and returns the stored
// document. An existing profile is returned unchanged with created=false.
// New profiles always start with onboarding not done.
func (s *ProfileService) Upsert(ctx context.Context, uid string, in models.Profile) (*models.Profile, bool, error) {
	if uid == "" {
		return nil, false, common.ErrUnauthorized
	}

	p := models.Profile{
		UID:         uid,
		Email:       normalizeEmail(in.Email),
		Provider:    strings.ToLower(strings.TrimSpace(in.Provider)),
		DisplayName: strings.TrimSpace(in.DisplayName),
	}
	if p.Provider == "" {
		p.Provider = defaultProvider
	}

	repo := s.repomanager.Profiles(s.db)
	created, err := repo.Insert(ctx, &p)
	if err != nil {
		s.log.Error(ctx, "insert profile failed", "uid", uid, "error", err)
		return nil, false, common.ErrInternal
	}

	stored, err := repo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, err
		}
		s.log.Error(ctx, "get profile failed", "uid", uid, "error", err)
		return nil, false, common.ErrInternal
	}

	if created {
		s.log.Info(ctx, "profile created", "uid", uid, "provider", stored.Provider)
		s.publish(ctx, events.ProfileCreated, stored)
	}
	return stored, created, nil
}

func (s *ProfileService) Get(ctx context.Context, uid string) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, uid)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		s.log.Error(ctx, "get profile failed", "uid", uid, "error", err)
		return nil, common.ErrInternal
	}
	return p, nil
}

// Update applies the non-nil fields of patch. A missing profile yields
// common.ErrNotFound.
func (s *ProfileService) Update(ctx context.Context, uid string, patch models.ProfilePatch) (*models.Profile, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name is required", common.ErrValidation)
		}
		patch.DisplayName = &name
	}

	p, err := s.repomanager.Profiles(s.db).Update(ctx, uid, patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		s.log.Error(ctx, "update profile failed", "uid", uid, "error", err)
		return nil, common.ErrInternal
	}
	s.publish(ctx, events.ProfileUpdated, p)
	return p, nil
}

func (s *ProfileService) publish(ctx context.Context, kind string, p *models.Profile) {
	e := events.Event{
		Type:       kind,
		UID:        p.UID,
		Email:      p.Email,
		Provider:   p.Provider,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn(ctx, "publish event failed", "type", kind, "uid", p.UID, "error", err)
	}
}
