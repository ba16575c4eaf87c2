package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/dbx"
	"github.com/HassanMahra/HealthAppProject/internal/server/events"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/profiles"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	createErr error
	getErr    error
}

func newFakeUsers() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrDuplicateAccount
	}
	c := *u
	c.ID = "user-" + u.Email
	f.byEmail[u.Email] = &c
	return &c, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeProfilesRepo struct {
	byUID     map[string]*models.Profile
	insertErr error
	updateErr error
}

func newFakeProfiles() *fakeProfilesRepo {
	return &fakeProfilesRepo{byUID: map[string]*models.Profile{}}
}

func (f *fakeProfilesRepo) Insert(_ context.Context, p *models.Profile) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, ok := f.byUID[p.UID]; ok {
		return false, nil
	}
	c := *p
	c.CreatedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c.UpdatedAt = c.CreatedAt
	f.byUID[p.UID] = &c
	return true, nil
}

func (f *fakeProfilesRepo) Get(_ context.Context, uid string) (*models.Profile, error) {
	p, ok := f.byUID[uid]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProfilesRepo) Update(_ context.Context, uid string, patch models.ProfilePatch) (*models.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.byUID[uid]
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

type fakeRepoManager struct {
	users    *fakeUsersRepo
	profiles *fakeProfilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsers(), profiles: newFakeProfiles()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return m.profiles }

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
