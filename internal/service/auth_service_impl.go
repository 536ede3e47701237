package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// AuthServiceImpl implements AuthService.
type AuthServiceImpl struct {
	userRepo repository.UserRepository
}

// NewAuthService creates an AuthServiceImpl.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

// GetOrCreateUserFromGoogle resolves a Google profile to a local user,
// creating one on first login.
func (s *AuthServiceImpl) GetOrCreateUserFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.User, error) {
	u, err := s.userRepo.FindByGoogleID(ctx, info.Sub)
	if err == nil {
		return u, nil
	}

	newUser := &model.User{
		Email:    info.Email,
		GoogleID: info.Sub,
		Name:     info.Name,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		slog.Error("create google user failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("new user created", "user_id", newUser.ID, "provider", "google")
	return newUser, nil
}

func (s *AuthServiceImpl) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.userRepo.HasRole(ctx, userID, model.RoleAdmin)
}
