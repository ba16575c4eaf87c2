package grpc

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/dbx"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/profiles"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/users"
)

type memRepoManager struct {
	mu       sync.Mutex
	users    map[string]*models.User
	profiles map[string]*models.Profile
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{users: map[string]*models.User{}, profiles: map[string]*models.Profile{}}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) users.Repository              { return memUsers{m} }
func (m *memRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return memProfiles{m} }

type memUsers struct{ m *memRepoManager }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.Email]; ok {
		return nil, common.ErrDuplicateAccount
	}
	c := *u
	c.ID = "id-" + u.Email
	r.m.users[u.Email] = &c
	return &c, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type memProfiles struct{ m *memRepoManager }

func (r memProfiles) Insert(_ context.Context, p *models.Profile) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[p.UID]; ok {
		return false, nil
	}
	c := *p
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.m.profiles[p.UID] = &c
	return true, nil
}

func (r memProfiles) Get(_ context.Context, uid string) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[uid]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r memProfiles) Update(_ context.Context, uid string, patch models.ProfilePatch) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[uid]
	if !ok {
		return nil, common.ErrNotFound
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.OnboardingDone != nil {
		p.OnboardingDone = *patch.OnboardingDone
	}
	c := *p
	return &c, nil
}
