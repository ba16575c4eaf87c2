package records

import (
	"context"
	"fmt"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
)

// AccountStore holds registered accounts (users) and their password
// verifiers (credentials, keyed by email).
type AccountStore struct {
	kv    storage.Store
	locks *keyLocker
	log   logging.Logger
}

// Add registers account with its verifier. Both collections are written in
// one SetMany. An email that is already registered yields
// ErrDuplicateAccount and leaves both collections untouched.
func (s *AccountStore) Add(ctx context.Context, account models.UserAccount, verifier models.PasswordVerifier) error {
	unlock := s.locks.lock(KeyUsers)
	defer unlock()

	var users []models.UserAccount
	if _, err := readJSON(ctx, s.kv, KeyUsers, &users); err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == account.Email {
			return fmt.Errorf("%w: %s", common.ErrDuplicateAccount, account.Email)
		}
	}

	creds := map[string]models.PasswordVerifier{}
	if _, err := readJSON(ctx, s.kv, KeyCredentials, &creds); err != nil {
		return err
	}
	creds[account.Email] = verifier

	usersRaw, err := encodeJSON(KeyUsers, append(users, account))
	if err != nil {
		return err
	}
	credsRaw, err := encodeJSON(KeyCredentials, creds)
	if err != nil {
		return err
	}

	if err := s.kv.SetMany(ctx, map[string][]byte{
		KeyUsers:       usersRaw,
		KeyCredentials: credsRaw,
	}); err != nil {
		return common.NewStorageError("set", KeyUsers, err)
	}

	s.log.Info(ctx, "account registered", "id", account.ID, "email", account.Email)
	return nil
}

// FindByEmail returns the account registered under email or ErrNotFound.
func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	var users []models.UserAccount
	if _, err := readJSON(ctx, s.kv, KeyUsers, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, common.ErrNotFound)
}

// List returns all accounts in registration order; failures read as empty.
func (s *AccountStore) List(ctx context.Context) []models.UserAccount {
	var users []models.UserAccount
	if _, err := readJSON(ctx, s.kv, KeyUsers, &users); err != nil {
		s.log.Warn(ctx, "reading accounts failed, returning empty list", "error", err)
		return []models.UserAccount{}
	}
	if users == nil {
		return []models.UserAccount{}
	}
	return users
}

// Verifier returns the password verifier stored for email or ErrNotFound.
func (s *AccountStore) Verifier(ctx context.Context, email string) (*models.PasswordVerifier, error) {
	creds := map[string]models.PasswordVerifier{}
	if _, err := readJSON(ctx, s.kv, KeyCredentials, &creds); err != nil {
		return nil, err
	}
	v, ok := creds[email]
	if !ok {
		return nil, fmt.Errorf("verifier for %s: %w", email, common.ErrNotFound)
	}
	return &v, nil
}
