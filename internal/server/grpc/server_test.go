package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/client"
	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/HassanMahra/HealthAppProject/internal/server/config"
	"github.com/HassanMahra/HealthAppProject/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeUsers{}, &fakeProfiles{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.NewNop(), &fakeUsers{}, &fakeProfiles{}, "secret")
	require.Error(t, srv.Run(context.Background()))
}

// startBufconn serves a server backed by the real services over an in-memory
// listener and returns a moodctl client connected to it.
func startBufconn(t *testing.T) *client.GRPCClient {
	t.Helper()

	cfg := &config.Config{SecretKey: "secret", AccessTokenValidityDuration: time.Hour}
	rm := newMemRepoManager()
	us := services.NewUserService(nil, rm, cfg, logging.NewNop())
	ps := services.NewProfileService(nil, rm, nil, logging.NewNop())
	srv := NewGRPCServer("bufnet", logging.NewNop(), us, ps, cfg.SecretKey)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	c, err := client.NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestEndToEnd_RegisterLoginProfile(t *testing.T) {
	c := startBufconn(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Register(ctx, "a@x.com", []byte("salt"), []byte("verifier")))
	require.ErrorIs(t, c.Register(ctx, "a@x.com", []byte("salt"), []byte("verifier")), common.ErrDuplicateAccount)

	salt, err := c.GetSalt(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)

	_, err = c.Login(ctx, "a@x.com", []byte("wrong"))
	require.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = c.GetProfile(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	token, err := c.Login(ctx, "a@x.com", []byte("verifier"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = c.GetProfile(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	p, created, err := c.UpsertProfile(ctx, models.Profile{Email: "a@x.com", Provider: "email", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.False(t, p.OnboardingDone)

	_, created, err = c.UpsertProfile(ctx, models.Profile{Email: "a@x.com", DisplayName: "Changed"})
	require.NoError(t, err)
	assert.False(t, created)

	done := true
	p, err = c.UpdateProfile(ctx, client.ProfilePatch{OnboardingDone: &done})
	require.NoError(t, err)
	assert.True(t, p.OnboardingDone)
	assert.Equal(t, "Alice", p.DisplayName)

	c.SetAccessToken("")
	_, err = c.GetProfile(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
}
