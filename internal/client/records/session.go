package records

import (
	"context"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
)

// Session is the single "who is signed in on this device" slot.
type Session struct {
	kv    storage.Store
	locks *keyLocker
	log   logging.Logger
}

// Current returns the signed-in account or nil. Read failures are logged.
func (s *Session) Current(ctx context.Context) *models.UserAccount {
	var acc models.UserAccount
	found, err := readJSON(ctx, s.kv, KeyCurrentUser, &acc)
	if err != nil {
		s.log.Warn(ctx, "reading current user failed", "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return &acc
}

func (s *Session) Set(ctx context.Context, account models.UserAccount) error {
	unlock := s.locks.lock(KeyCurrentUser)
	defer unlock()

	return writeJSON(ctx, s.kv, KeyCurrentUser, account)
}

// Clear empties the slot; clearing an empty slot succeeds.
func (s *Session) Clear(ctx context.Context) error {
	unlock := s.locks.lock(KeyCurrentUser)
	defer unlock()

	if err := s.kv.Remove(ctx, KeyCurrentUser); err != nil {
		return common.NewStorageError("remove", KeyCurrentUser, err)
	}
	return nil
}
