// Package profiles stores profile documents in PostgreSQL.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/dbx"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
)

const columns = `uid, email, provider, display_name, onboarding_done, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Profile) (bool, error) {
	query :=
		`INSERT INTO profiles (uid, email, provider, display_name, onboarding_done)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (uid) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, p.UID, p.Email, p.Provider, p.DisplayName, p.OnboardingDone)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Get(ctx context.Context, uid string) (*models.Profile, error) {
	query := `SELECT ` + columns + ` FROM profiles WHERE uid = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, uid))
}

// Update applies the non-nil fields of patch and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, uid string, patch models.ProfilePatch) (*models.Profile, error) {
	query :=
		`UPDATE profiles
		 SET display_name = COALESCE($2, display_name),
		     onboarding_done = COALESCE($3, onboarding_done),
		     updated_at = now()
		 WHERE uid = $1
		 RETURNING ` + columns

	var (
		name sql.NullString
		done sql.NullBool
	)
	if patch.DisplayName != nil {
		name = sql.NullString{String: *patch.DisplayName, Valid: true}
	}
	if patch.OnboardingDone != nil {
		done = sql.NullBool{Bool: *patch.OnboardingDone, Valid: true}
	}

	return scanProfile(r.db.QueryRowContext(ctx, query, uid, name, done))
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.UID, &p.Email, &p.Provider, &p.DisplayName, &p.OnboardingDone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
