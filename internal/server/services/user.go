// Package services contains server-side business logic. UserService
// (user.go) handles registration, salt lookup and login; ProfileService
// (profile.go) owns the per-user profile document.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/dbx"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/HassanMahra/HealthAppProject/internal/server/auth"
	"github.com/HassanMahra/HealthAppProject/internal/server/config"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

const saltSize = 32

var validate = validator.New(validator.WithRequiredStructEnabled())

type registerInput struct {
	Email    string `validate:"required,email,max=320"`
	Salt     []byte `validate:"required"`
	Verifier []byte `validate:"required"`
}

// Session is what a successful Login hands back to the client.
type Session struct {
	UserID      string
	AccessToken string
}

type UserService struct {
	db                          dbx.DBTX
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	log                         logging.Logger
}

func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		log:                         logger.With("service", "users"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores the client-computed salt and verifier for email.
// An existing email yields common.ErrDuplicateAccount.
func (s *UserService) Register(ctx context.Context, email string, salt, verifier []byte) (*models.User, error) {
	in := registerInput{Email: normalizeEmail(email), Salt: salt, Verifier: verifier}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{Email: in.Email, Salt: in.Salt, Verifier: in.Verifier})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, err
		}
		s.log.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrInternal
	}
	s.log.Info(ctx, "user registered", "id", u.ID)
	return u, nil
}

// GetSalt returns the stored salt for email. Unknown emails get a salt
// derived from the server secret, so repeated lookups look the same as for
// a real account.
func (s *UserService) GetSalt(ctx context.Context, email string) ([]byte, error) {
	email = normalizeEmail(email)
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.decoySalt(email), nil
		}
		s.log.Error(ctx, "salt lookup failed", "error", err)
		return nil, common.ErrInternal
	}
	return user.Salt, nil
}

// Login compares verifierCandidate with the stored verifier and issues an
// access token on a match.
func (s *UserService) Login(ctx context.Context, email string, verifierCandidate []byte) (*Session, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	if subtle.ConstantTimeCompare(user.Verifier, verifierCandidate) != 1 {
		return nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.log.Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrInternal
	}
	return &Session{UserID: user.ID, AccessToken: token}, nil
}

func (s *UserService) decoySalt(email string) []byte {
	mac := hmac.New(sha256.New, s.jwtSecret)
	mac.Write([]byte("salt:" + email))
	return mac.Sum(nil)[:saltSize]
}
