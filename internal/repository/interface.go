package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// DB is the minimal liveness interface used by the health endpoint.
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository persists admin identities and their roles.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// HasRole reports whether the user holds the given role in user_roles.
	HasRole(ctx context.Context, userID, role string) (bool, error)
	GrantRole(ctx context.Context, userID, role string) error
}
