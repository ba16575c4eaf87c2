package common

import (
	"errors"
	"fmt"
)

var (
	// record store errors
	ErrStorage          = errors.New("storage error")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrDuplicateID      = errors.New("duplicate entry id")
	ErrNotFound         = errors.New("not found")
	ErrInvalidMood      = errors.New("mood must be between 1 and 5")
	ErrInvalidLimit     = errors.New("limit must be positive")

	// auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// remote profile store errors; never fatal for local auth
	ErrRemoteProfile = errors.New("remote profile store error")

	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")
)

// StorageError reports a failed read or write against the key-value substrate.
// It matches ErrStorage with errors.Is.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
