package profiles

import (
	"context"

	"github.com/HassanMahra/HealthAppProject/internal/server/models"
)

type Repository interface {
	// Insert stores p unless a profile for p.UID exists; created reports
	// which happened.
	Insert(ctx context.Context, p *models.Profile) (created bool, err error)
	Get(ctx context.Context, uid string) (*models.Profile, error)
	Update(ctx context.Context, uid string, patch models.ProfilePatch) (*models.Profile, error)
}
