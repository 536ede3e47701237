package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// KidPair links a kid to its case, used by the kid-level followup fan-out.
type KidPair struct {
	CaseID string
	KidID  string
}

// KidRepository handles persistence for case kids.
type KidRepository interface {
	ListByCase(ctx context.Context, caseID string) ([]*model.CaseKid, error)
	GetByID(ctx context.Context, id string) (*model.CaseKid, error)
	// ListAllPairs returns every (case, kid) pair across all cases.
	ListAllPairs(ctx context.Context) ([]KidPair, error)
	Create(ctx context.Context, kid *model.CaseKid) error
	Update(ctx context.Context, kid *model.CaseKid) error
	Delete(ctx context.Context, id string) error
}
