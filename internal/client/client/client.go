package client

import (
	"context"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
)

// ProfilePatch is a partial profile update; nil fields stay unchanged.
type ProfilePatch struct {
	DisplayName    *string
	OnboardingDone *bool
}

type Client interface {
	Close() error
	Register(ctx context.Context, email string, salt []byte, verifier []byte) error
	GetSalt(ctx context.Context, email string) ([]byte, error)
	// Login returns the access token and also keeps it for later calls.
	Login(ctx context.Context, email string, verifier []byte) (string, error)
	SetAccessToken(token string)
	Ping(ctx context.Context) error
	UpsertProfile(ctx context.Context, p models.Profile) (*models.Profile, bool, error)
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.Profile, error)
}
