// Package grpc exposes the profile service over gRPC. Messages travel with
// the JSON codec registered by package profileapi.
package grpc

import (
	"context"
	"net"

	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/HassanMahra/HealthAppProject/internal/profileapi"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
	"github.com/HassanMahra/HealthAppProject/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, email string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifier []byte) (*services.Session, error)
}

type ProfileService interface {
	Upsert(ctx context.Context, uid string, p models.Profile) (*models.Profile, bool, error)
	Get(ctx context.Context, uid string) (*models.Profile, error)
	Update(ctx context.Context, uid string, patch models.ProfilePatch) (*models.Profile, error)
}

type GRPCServer struct {
	address   string
	users     UserService
	profiles  ProfileService
	logger    logging.Logger
	jwtSecret []byte
}

var _ profileapi.ProfileServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(address string, l logging.Logger, us UserService, ps ProfileService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		profiles:  ps,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	profileapi.RegisterProfileServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled,
// then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())
	return srv.Serve(lis)
}
