package service

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// CaseService provides business logic for case management.
type CaseService interface {
	// List returns cases with per-fetch financial aggregates.
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error)
	// GetByID returns the case with aggregates and its charity links.
	GetByID(ctx context.Context, id string) (*model.Case, error)
	FindByPhone(ctx context.Context, phone string) (*model.Case, error)
	Create(ctx context.Context, c *model.Case) error
	Update(ctx context.Context, c *model.Case) error
	Patch(ctx context.Context, id string, patch model.CasePatch) error
	Delete(ctx context.Context, id string) error
}
