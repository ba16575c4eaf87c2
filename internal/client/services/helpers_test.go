package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/HassanMahra/HealthAppProject/internal/client/client"
	"github.com/HassanMahra/HealthAppProject/internal/client/keychain"
	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/client/records"
	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/cryptox"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/stretchr/testify/require"
)

var testKDF = cryptox.KDFParams{Time: 1, Memory: 1024, Threads: 1}

// fakeClient implements client.Client and records what it was asked.
type fakeClient struct {
	CloseErr error
	PingErr  error

	SaltRet []byte
	SaltErr error

	// LoginErrs are returned by successive Login calls; nil once exhausted.
	LoginErrs []error
	Token     string

	RegisterErr error

	UpsertRet     models.Profile
	UpsertCreated bool
	UpsertErr     error

	ProfileRet models.Profile
	ProfileErr error

	LastRegisterEmail string
	LastRegisterSalt  []byte
	LoginCalls        int
	LastLoginVerifier []byte
	LastUpsert        *models.Profile
	LastPatch         *client.ProfilePatch
	AccessToken       string
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Register(_ context.Context, email string, salt []byte, _ []byte) error {
	f.LastRegisterEmail = email
	f.LastRegisterSalt = append([]byte(nil), salt...)
	return f.RegisterErr
}

func (f *fakeClient) GetSalt(context.Context, string) ([]byte, error) {
	return f.SaltRet, f.SaltErr
}

func (f *fakeClient) Login(_ context.Context, _ string, verifier []byte) (string, error) {
	f.LoginCalls++
	f.LastLoginVerifier = append([]byte(nil), verifier...)
	if len(f.LoginErrs) > 0 {
		err := f.LoginErrs[0]
		f.LoginErrs = f.LoginErrs[1:]
		if err != nil {
			return "", err
		}
	}
	f.AccessToken = f.Token
	return f.Token, nil
}

func (f *fakeClient) SetAccessToken(token string) { f.AccessToken = token }

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) UpsertProfile(_ context.Context, p models.Profile) (*models.Profile, bool, error) {
	f.LastUpsert = &p
	if f.UpsertErr != nil {
		return nil, false, f.UpsertErr
	}
	out := f.UpsertRet
	return &out, f.UpsertCreated, nil
}

func (f *fakeClient) GetProfile(context.Context) (*models.Profile, error) {
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	out := f.ProfileRet
	return &out, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, patch client.ProfilePatch) (*models.Profile, error) {
	f.LastPatch = &patch
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	out := f.ProfileRet
	if patch.OnboardingDone != nil {
		out.OnboardingDone = *patch.OnboardingDone
	}
	if patch.DisplayName != nil {
		out.DisplayName = *patch.DisplayName
	}
	return &out, nil
}

type fixture struct {
	recs *records.Store
	kc   *keychain.Keychain
	kv   *storage.SQLiteStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return &fixture{
		recs: records.New(kv, logging.NewNop()),
		kc:   keychain.New(kv, keychain.DefaultService),
		kv:   kv,
	}
}

// auth builds an AuthService; pass a nil *fakeClient for offline mode.
func (f *fixture) auth(remote *fakeClient) AuthService {
	var c client.Client
	if remote != nil {
		c = remote
	}
	return NewAuthService(f.recs, f.kc, c, logging.NewNop(), WithKDFParams(testKDF))
}
