package service

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// GoogleUserInfo is the profile returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	Sub   string
	Email string
	Name  string
}

// AuthService resolves OAuth identities to local users.
type AuthService interface {
	GetOrCreateUserFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.User, error)
	// IsAdmin reports whether the user holds the admin role.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
