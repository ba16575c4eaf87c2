// Package services contains the application services behind the moodtrack
// CLI: authentication (auth.go) and mood tracking (mood.go).
package services

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/HassanMahra/HealthAppProject/internal/client/client"
	"github.com/HassanMahra/HealthAppProject/internal/client/keychain"
	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/records"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/cryptox"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/google/uuid"
)

var errRemoteDisabled = errors.New("profile service not configured")

// AuthService defines the account operations available to the CLI.
//
// Register and Login authenticate against the local record store; the remote
// profile service is synchronised afterwards on a best-effort basis and its
// failures never undo a local sign-in.
type AuthService interface {
	Register(ctx context.Context, username, email string, password []byte) (*models.UserAccount, error)
	Login(ctx context.Context, email string, password []byte) (*models.UserAccount, error)
	SignInWithProvider(ctx context.Context, id models.FederatedIdentity) (*models.UserAccount, error)
	CurrentUser(ctx context.Context) *models.UserAccount
	Logout(ctx context.Context) error

	Profile(ctx context.Context) (*models.Profile, error)
	CompleteOnboarding(ctx context.Context) (*models.Profile, error)
	UpdateDisplayName(ctx context.Context, name string) (*models.Profile, error)

	Ping(ctx context.Context) error
	Close() error
}

type registerInput struct {
	Username string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password []byte `validate:"required,min=6"`
}

type authService struct {
	records  *records.Store
	keychain *keychain.Keychain
	remote   client.Client
	kdf      cryptox.KDFParams
	log      logging.Logger
}

type AuthOption func(*authService)

// WithKDFParams overrides the argon2id cost used for new and checked verifiers.
func WithKDFParams(p cryptox.KDFParams) AuthOption {
	return func(a *authService) { a.kdf = p }
}

// NewAuthService wires the service. remote may be nil for an offline-only
// installation.
func NewAuthService(recs *records.Store, kc *keychain.Keychain, remote client.Client, logger logging.Logger, opts ...AuthOption) AuthService {
	a := &authService{
		records:  recs,
		keychain: kc,
		remote:   remote,
		kdf:      cryptox.DefaultKDFParams,
		log:      logger.With("service", "auth"),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.UserAccount, error) {
	return a.register(ctx, username, email, password, models.ProviderEmail)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.UserAccount, error) {
	return a.login(ctx, email, password, models.ProviderEmail)
}

func (a *authService) register(ctx context.Context, username, email string, password []byte, provider string) (*models.UserAccount, error) {
	in := registerInput{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := a.records.Accounts.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateAccount, in.Email)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate account id: %w", err)
	}
	account := models.UserAccount{ID: id.String(), Username: in.Username, Email: in.Email}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(password, salt, a.kdf)
	verifier := models.PasswordVerifier{Salt: salt, Verifier: cryptox.MakeVerifier(key)}
	common.WipeByteArray(key)

	if err := a.records.Accounts.Add(ctx, account, verifier); err != nil {
		return nil, err
	}

	if err := a.startSession(ctx, account, password, verifier, provider); err != nil {
		return nil, fmt.Errorf("account %s was created but sign-in failed, log in to continue: %w", account.Email, err)
	}
	return &account, nil
}

func (a *authService) login(ctx context.Context, email string, password []byte, provider string) (*models.UserAccount, error) {
	email = strings.TrimSpace(email)

	account, err := a.records.Accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	verifier, err := a.records.Accounts.Verifier(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(password, verifier.Salt, a.kdf)
	candidate := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	if subtle.ConstantTimeCompare(verifier.Verifier, candidate) == 0 {
		a.log.Warn(ctx, "login rejected", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	if err := a.startSession(ctx, *account, password, *verifier, provider); err != nil {
		return nil, err
	}
	return account, nil
}

// startSession syncs the remote profile, fills the keychain slot and sets
// the session pointer. Remote failures are logged; a failed keychain or
// session write fails the sign-in.
func (a *authService) startSession(ctx context.Context, account models.UserAccount, password []byte, local models.PasswordVerifier, provider string) error {
	token, err := a.syncRemote(ctx, account, password, local, provider)
	switch {
	case errors.Is(err, errRemoteDisabled):
	case err != nil:
		a.log.Warn(ctx, "profile sync failed, continuing offline", "email", account.Email, "error", err)
	}

	if token == "" {
		hex, err := common.MakeRandHexString(32)
		if err != nil {
			return fmt.Errorf("generate local token: %w", err)
		}
		token = common.LocalTokenPrefix + hex
	}

	if err := a.keychain.Save(ctx, account.Email, token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	if err := a.records.Session.Set(ctx, account); err != nil {
		return err
	}
	a.log.Info(ctx, "signed in", "id", account.ID, "provider", provider)
	return nil
}

// syncRemote signs in to the profile service, registering the account there
// on first contact, and makes sure the profile document exists.
func (a *authService) syncRemote(ctx context.Context, account models.UserAccount, password []byte, local models.PasswordVerifier, provider string) (string, error) {
	if a.remote == nil {
		return "", errRemoteDisabled
	}

	verifier := local.Verifier
	if salt, err := a.remote.GetSalt(ctx, account.Email); err == nil && len(salt) > 0 && !bytes.Equal(salt, local.Salt) {
		key := cryptox.DeriveKey(password, salt, a.kdf)
		verifier = cryptox.MakeVerifier(key)
		common.WipeByteArray(key)
	}

	token, err := a.remote.Login(ctx, account.Email, verifier)
	if errors.Is(err, client.ErrUnauthorized) {
		if err := a.remote.Register(ctx, account.Email, local.Salt, local.Verifier); err != nil {
			return "", fmt.Errorf("%w: register: %w", common.ErrRemoteProfile, err)
		}
		token, err = a.remote.Login(ctx, account.Email, local.Verifier)
	}
	if err != nil {
		return "", fmt.Errorf("%w: login: %w", common.ErrRemoteProfile, err)
	}

	profile, created, err := a.remote.UpsertProfile(ctx, models.Profile{
		Email:       account.Email,
		Provider:    provider,
		DisplayName: displayName(account),
	})
	if err != nil {
		return token, fmt.Errorf("%w: upsert: %w", common.ErrRemoteProfile, err)
	}
	if created {
		a.log.Info(ctx, "profile created", "uid", profile.UID)
	}
	return token, nil
}

func displayName(account models.UserAccount) string {
	if account.Username != "" {
		return account.Username
	}
	if i := strings.Index(account.Email, "@"); i > 0 {
		return account.Email[:i]
	}
	return "User"
}

// SignInWithProvider signs in an identity returned by a federated provider,
// registering a local account on first use.
func (a *authService) SignInWithProvider(ctx context.Context, id models.FederatedIdentity) (*models.UserAccount, error) {
	provider := strings.ToLower(strings.TrimSpace(id.Provider))
	if provider == "" || strings.TrimSpace(id.ProviderUserID) == "" {
		return nil, fmt.Errorf("%w: provider and provider user id are required", common.ErrValidation)
	}

	name := strings.TrimSpace(id.DisplayName)
	if name == "" {
		name = strings.ToUpper(provider[:1]) + provider[1:] + " User"
	}
	email := strings.TrimSpace(id.Email)
	if email == "" {
		email = id.ProviderUserID + "@" + provider + ".invalid"
	}
	secret := []byte(provider + "_auth_" + id.ProviderUserID)
	defer common.WipeByteArray(secret)

	_, err := a.records.Accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return a.login(ctx, email, secret, provider)
	case errors.Is(err, common.ErrNotFound):
		return a.register(ctx, name, email, secret, provider)
	default:
		return nil, err
	}
}

func (a *authService) CurrentUser(ctx context.Context) *models.UserAccount {
	return a.records.Session.Current(ctx)
}

// Logout clears the session pointer and the keychain slot. Accounts are kept.
func (a *authService) Logout(ctx context.Context) error {
	if a.remote != nil {
		a.remote.SetAccessToken("")
	}
	err := errors.Join(a.records.Session.Clear(ctx), a.keychain.Reset(ctx))
	if err == nil {
		a.log.Info(ctx, "signed out")
	}
	return err
}

// remoteSession restores the profile-service token for the current user.
func (a *authService) remoteSession(ctx context.Context) error {
	if a.remote == nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteProfile, errRemoteDisabled)
	}
	current := a.records.Session.Current(ctx)
	if current == nil {
		return fmt.Errorf("%w: not signed in", common.ErrRemoteProfile)
	}
	cred, err := a.keychain.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteProfile, err)
	}
	if cred == nil || cred.Account != current.Email || strings.HasPrefix(cred.Secret, common.LocalTokenPrefix) {
		return fmt.Errorf("%w: no profile service session, sign in again while online", common.ErrRemoteProfile)
	}
	a.remote.SetAccessToken(cred.Secret)
	return nil
}

func (a *authService) Profile(ctx context.Context) (*models.Profile, error) {
	if err := a.remoteSession(ctx); err != nil {
		return nil, err
	}
	p, err := a.remote.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRemoteProfile, err)
	}
	return p, nil
}

func (a *authService) CompleteOnboarding(ctx context.Context) (*models.Profile, error) {
	done := true
	return a.updateProfile(ctx, client.ProfilePatch{OnboardingDone: &done})
}

func (a *authService) UpdateDisplayName(ctx context.Context, name string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", common.ErrValidation)
	}
	return a.updateProfile(ctx, client.ProfilePatch{DisplayName: &name})
}

func (a *authService) updateProfile(ctx context.Context, patch client.ProfilePatch) (*models.Profile, error) {
	if err := a.remoteSession(ctx); err != nil {
		return nil, err
	}
	p, err := a.remote.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRemoteProfile, err)
	}
	return p, nil
}

func (a *authService) Ping(ctx context.Context) error {
	if a.remote == nil {
		return client.ErrUnavailable
	}
	return a.remote.Ping(ctx)
}

func (a *authService) Close() error {
	if a.remote == nil {
		return nil
	}
	return a.remote.Close()
}
