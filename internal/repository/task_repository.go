package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// TaskRepository handles persistence for internal case tasks.
type TaskRepository interface {
	ListByCase(ctx context.Context, caseID string) ([]*model.CaseTask, error)
	ListPending(ctx context.Context, limit, offset int) ([]*model.CaseTask, error)
	GetByID(ctx context.Context, id string) (*model.CaseTask, error)
	Create(ctx context.Context, t *model.CaseTask) error
	// SetStatus moves a pending task to completed or cancelled.
	SetStatus(ctx context.Context, id, status, adminID string) error
	Delete(ctx context.Context, id string) error
}
