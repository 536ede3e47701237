package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// CaseRepository handles persistence for beneficiary cases.
type CaseRepository interface {
	// List returns cases with financial aggregates recomputed per fetch.
	// publishedOnly restricts to publicly visible cases.
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error)
	GetByID(ctx context.Context, id string) (*model.Case, error)
	// FindByPhone matches the responsible party's phone exactly; used by
	// the beneficiary followup flow.
	FindByPhone(ctx context.Context, phone string) (*model.Case, error)
	ListIDs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, c *model.Case) error
	Update(ctx context.Context, c *model.Case) error
	Patch(ctx context.Context, id string, patch model.CasePatch) error
	// Delete removes the case and cascades to dependent rows.
	Delete(ctx context.Context, id string) error
	UpdateImageURL(ctx context.Context, id, imageURL string) error
}
