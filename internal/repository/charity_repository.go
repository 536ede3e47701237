package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// CharityRepository handles the charity registry and case links.
type CharityRepository interface {
	List(ctx context.Context) ([]*model.Charity, error)
	Create(ctx context.Context, ch *model.Charity) error
	Update(ctx context.Context, ch *model.Charity) error
	Delete(ctx context.Context, id string) error
	ListByCase(ctx context.Context, caseID string) ([]*model.Charity, error)
	Attach(ctx context.Context, caseID, charityID string) error
	Detach(ctx context.Context, caseID, charityID string) error
}
