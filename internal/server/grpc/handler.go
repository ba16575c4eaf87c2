package grpc

import (
	"context"
	"errors"

	"github.com/HassanMahra/HealthAppProject/internal/common"
	"github.com/HassanMahra/HealthAppProject/internal/profileapi"
	"github.com/HassanMahra/HealthAppProject/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) RegisterUser(ctx context.Context, req *profileapi.RegisterUserRequest) (*profileapi.RegisterUserResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Email, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "id", user.ID)
	return &profileapi.RegisterUserResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *profileapi.GetSaltRequest) (*profileapi.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &profileapi.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *profileapi.LoginRequest) (*profileapi.LoginResponse, error) {
	sess, err := s.users.Login(ctx, req.Email, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &profileapi.LoginResponse{UserID: sess.UserID, AccessToken: sess.AccessToken}, nil
}

func (s *GRPCServer) Ping(context.Context, *profileapi.PingRequest) (*profileapi.PingResponse, error) {
	return &profileapi.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) UpsertProfile(ctx context.Context, req *profileapi.UpsertProfileRequest) (*profileapi.UpsertProfileResponse, error) {
	uid, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, created, err := s.profiles.Upsert(ctx, uid, models.Profile{
		Email:       req.Profile.Email,
		Provider:    req.Profile.Provider,
		DisplayName: req.Profile.DisplayName,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &profileapi.UpsertProfileResponse{Profile: toWire(p), Created: created}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *profileapi.GetProfileRequest) (*profileapi.GetProfileResponse, error) {
	uid, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.profiles.Get(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &profileapi.GetProfileResponse{Profile: toWire(p)}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *profileapi.UpdateProfileRequest) (*profileapi.UpdateProfileResponse, error) {
	uid, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.profiles.Update(ctx, uid, models.ProfilePatch{
		DisplayName:    req.DisplayName,
		OnboardingDone: req.OnboardingDone,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &profileapi.UpdateProfileResponse{Profile: toWire(p)}, nil
}

// toStatus maps service errors onto gRPC codes. Unknown errors are logged
// and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateAccount):
		return status.Error(codes.AlreadyExists, "account already exists")
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toWire(p *models.Profile) profileapi.Profile {
	return profileapi.Profile{
		UID:            p.UID,
		Email:          p.Email,
		Provider:       p.Provider,
		DisplayName:    p.DisplayName,
		CreatedAt:      p.CreatedAt,
		OnboardingDone: p.OnboardingDone,
	}
}
