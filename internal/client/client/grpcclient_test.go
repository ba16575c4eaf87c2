package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/profileapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakePB struct {
	lastRegister *profileapi.RegisterUserRequest
	lastLogin    *profileapi.LoginRequest
	lastUpsert   *profileapi.UpsertProfileRequest
	lastUpdate   *profileapi.UpdateProfileRequest

	saltResp    *profileapi.GetSaltResponse
	loginResp   *profileapi.LoginResponse
	pingResp    *profileapi.PingResponse
	profileResp profileapi.Profile
	created     bool
	err         error
}

func (f *fakePB) RegisterUser(_ context.Context, in *profileapi.RegisterUserRequest, _ ...grpc.CallOption) (*profileapi.RegisterUserResponse, error) {
	f.lastRegister = in
	return &profileapi.RegisterUserResponse{UserID: "u1"}, f.err
}

func (f *fakePB) GetSalt(context.Context, *profileapi.GetSaltRequest, ...grpc.CallOption) (*profileapi.GetSaltResponse, error) {
	return f.saltResp, f.err
}

func (f *fakePB) Login(_ context.Context, in *profileapi.LoginRequest, _ ...grpc.CallOption) (*profileapi.LoginResponse, error) {
	f.lastLogin = in
	return f.loginResp, f.err
}

func (f *fakePB) Ping(context.Context, *profileapi.PingRequest, ...grpc.CallOption) (*profileapi.PingResponse, error) {
	return f.pingResp, f.err
}

func (f *fakePB) UpsertProfile(_ context.Context, in *profileapi.UpsertProfileRequest, _ ...grpc.CallOption) (*profileapi.UpsertProfileResponse, error) {
	f.lastUpsert = in
	if f.err != nil {
		return nil, f.err
	}
	return &profileapi.UpsertProfileResponse{Profile: f.profileResp, Created: f.created}, nil
}

func (f *fakePB) GetProfile(context.Context, *profileapi.GetProfileRequest, ...grpc.CallOption) (*profileapi.GetProfileResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &profileapi.GetProfileResponse{Profile: f.profileResp}, nil
}

func (f *fakePB) UpdateProfile(_ context.Context, in *profileapi.UpdateProfileRequest, _ ...grpc.CallOption) (*profileapi.UpdateProfileResponse, error) {
	f.lastUpdate = in
	if f.err != nil {
		return nil, f.err
	}
	return &profileapi.UpdateProfileResponse{Profile: f.profileResp}, nil
}

func newFakeClient(f *fakePB) *GRPCClient {
	return &GRPCClient{client: f, callTimeout: time.Second}
}

func TestGRPCClient_RegisterAndSalt(t *testing.T) {
	f := &fakePB{saltResp: &profileapi.GetSaltResponse{Salt: []byte("salt")}}
	c := newFakeClient(f)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "a@x.com", []byte("s"), []byte("v")))
	assert.Equal(t, "a@x.com", f.lastRegister.Email)
	assert.Equal(t, []byte("v"), f.lastRegister.Verifier)

	salt, err := c.GetSalt(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)
}

func TestGRPCClient_LoginStoresToken(t *testing.T) {
	f := &fakePB{loginResp: &profileapi.LoginResponse{UserID: "u1", AccessToken: "tok"}}
	c := newFakeClient(f)

	token, err := c.Login(context.Background(), "a@x.com", []byte("v"))
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "tok", c.token())
}

func TestGRPCClient_Ping(t *testing.T) {
	c := newFakeClient(&fakePB{pingResp: &profileapi.PingResponse{Status: "OK"}})
	require.NoError(t, c.Ping(context.Background()))

	c = newFakeClient(&fakePB{pingResp: &profileapi.PingResponse{Status: "DEGRADED"}})
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestGRPCClient_ProfileCalls(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	f := &fakePB{
		profileResp: profileapi.Profile{UID: "u1", Email: "a@x.com", Provider: "email", DisplayName: "alice", CreatedAt: created},
		created:     true,
	}
	c := newFakeClient(f)
	ctx := context.Background()

	p, isNew, err := c.UpsertProfile(ctx, models.Profile{Email: "a@x.com", Provider: "email", DisplayName: "alice"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "u1", p.UID)
	assert.Equal(t, "alice", f.lastUpsert.Profile.DisplayName)

	p, err = c.GetProfile(ctx)
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(created))

	name := "Al"
	_, err = c.UpdateProfile(ctx, ProfilePatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Al", *f.lastUpdate.DisplayName)
	assert.Nil(t, f.lastUpdate.OnboardingDone)
}

func TestGRPCClient_MapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.PermissionDenied, ErrUnauthorized},
		{codes.Unavailable, ErrUnavailable},
		{codes.DeadlineExceeded, ErrUnavailable},
		{codes.AlreadyExists, common.ErrDuplicateAccount},
		{codes.NotFound, common.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			require.ErrorIs(t, c.mapError(status.Error(tt.code, "x")), tt.want)
		})
	}

	other := c.mapError(status.Error(codes.Internal, "boom"))
	require.Error(t, other)
	assert.Contains(t, other.Error(), "rpc error")
	assert.NoError(t, c.mapError(nil))
}

func TestGRPCClient_ErrorsAreMapped(t *testing.T) {
	c := newFakeClient(&fakePB{err: status.Error(codes.NotFound, "no profile")})
	_, err := c.GetProfile(context.Background())
	require.ErrorIs(t, err, common.ErrNotFound)

	c = newFakeClient(&fakePB{err: errors.New("plain")})
	_, err = c.Login(context.Background(), "a", nil)
	require.Error(t, err)
}

type tokenEchoServer struct {
	profileapi.ProfileServiceServer
	seen chan string
}

func (s *tokenEchoServer) Ping(ctx context.Context, _ *profileapi.PingRequest) (*profileapi.PingResponse, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	token := ""
	if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 {
		token = v[0]
	}
	s.seen <- token
	return &profileapi.PingResponse{Status: "OK"}, nil
}

func TestGRPCClient_InterceptorAttachesToken(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	echo := &tokenEchoServer{seen: make(chan string, 2)}
	profileapi.RegisterProfileServiceServer(srv, echo)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	assert.Equal(t, "", <-echo.seen)

	c.SetAccessToken("jwt-123")
	require.NoError(t, c.Ping(ctx))
	assert.Equal(t, "jwt-123", <-echo.seen)
}
