package repository

import (
	"context"
	"time"

	"github.com/kafala/backend/internal/model"
)

// FollowupAnswer carries a case-level answer written onto the action row.
type FollowupAnswer struct {
	Answer     string
	PhotoURL   string
	AnsweredAt time.Time
}

// FollowupRepository handles persistence for followup actions and their
// kid-level answers.
type FollowupRepository interface {
	// CreateBulk inserts all actions in one transaction; the fan-out to
	// cases/kids is computed by the service.
	CreateBulk(ctx context.Context, actions []*model.FollowupAction) error
	GetByID(ctx context.Context, id string) (*model.FollowupAction, error)
	ListByCase(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error)
	// SetAnswer records a case-level answer on the row itself.
	SetAnswer(ctx context.Context, id string, ans FollowupAnswer) error
	// UpsertKidAnswer writes a kid-level answer keyed on (action_id,
	// kid_id); a repeat submit overwrites. When profileColumn is non-empty
	// the answer is also written through to that case_kids column in the
	// same transaction.
	UpsertKidAnswer(ctx context.Context, ans *model.KidAnswer, profileColumn string) error
	ListKidAnswers(ctx context.Context, actionID string) ([]*model.KidAnswer, error)
	// SetStatus moves the action to a terminal state, guarded on pending.
	SetStatus(ctx context.Context, id, status, adminID string) error
}
