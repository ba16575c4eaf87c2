package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/profileapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const defaultCallTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      profileapi.ProfileServiceClient
	callTimeout time.Duration

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection to endpointURL. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, callTimeout: defaultCallTimeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = profileapi.NewProfileServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}

func (s *GRPCClient) Register(ctx context.Context, email string, salt []byte, verifier []byte) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.RegisterUser(ctx, &profileapi.RegisterUserRequest{Email: email, Salt: salt, Verifier: verifier})
	return s.mapError(err)
}

func (s *GRPCClient) GetSalt(ctx context.Context, email string) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, &profileapi.GetSaltRequest{Email: email})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, verifier []byte) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &profileapi.LoginRequest{Email: email, Verifier: verifier})
	if err != nil {
		return "", s.mapError(err)
	}
	s.SetAccessToken(resp.AccessToken)
	return resp.AccessToken, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &profileapi.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) UpsertProfile(ctx context.Context, p models.Profile) (*models.Profile, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.UpsertProfile(ctx, &profileapi.UpsertProfileRequest{Profile: toWire(p)})
	if err != nil {
		return nil, false, s.mapError(err)
	}
	out := fromWire(resp.Profile)
	return &out, resp.Created, nil
}

func (s *GRPCClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetProfile(ctx, &profileapi.GetProfileRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	out := fromWire(resp.Profile)
	return &out, nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.UpdateProfile(ctx, &profileapi.UpdateProfileRequest{
		DisplayName:    patch.DisplayName,
		OnboardingDone: patch.OnboardingDone,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	out := fromWire(resp.Profile)
	return &out, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return common.ErrDuplicateAccount
	case codes.NotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func toWire(p models.Profile) profileapi.Profile {
	return profileapi.Profile{
		UID:            p.UID,
		Email:          p.Email,
		Provider:       p.Provider,
		DisplayName:    p.DisplayName,
		CreatedAt:      p.CreatedAt,
		OnboardingDone: p.OnboardingDone,
	}
}

func fromWire(p profileapi.Profile) models.Profile {
	return models.Profile{
		UID:            p.UID,
		Email:          p.Email,
		Provider:       p.Provider,
		DisplayName:    p.DisplayName,
		CreatedAt:      p.CreatedAt,
		OnboardingDone: p.OnboardingDone,
	}
}
