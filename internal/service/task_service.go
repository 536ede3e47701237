package service

import (
	"context"
	"fmt"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// TaskService provides business logic for internal case tasks.
type TaskService interface {
	ListByCase(ctx context.Context, caseID string) ([]*model.CaseTask, error)
	ListPending(ctx context.Context, limit, offset int) ([]*model.CaseTask, error)
	Create(ctx context.Context, t *model.CaseTask) error
	Complete(ctx context.Context, id, adminID string) error
	Cancel(ctx context.Context, id, adminID string) error
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a TaskService.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) ListByCase(ctx context.Context, caseID string) ([]*model.CaseTask, error) {
	return s.repo.ListByCase(ctx, caseID)
}

func (s *taskService) ListPending(ctx context.Context, limit, offset int) ([]*model.CaseTask, error) {
	return s.repo.ListPending(ctx, limit, offset)
}

func (s *taskService) Create(ctx context.Context, t *model.CaseTask) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	switch t.Priority {
	case "":
		t.Priority = model.TaskPriorityMedium
	case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh, model.TaskPriorityUrgent:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, t.Priority)
	}
	return s.repo.Create(ctx, t)
}

func (s *taskService) Complete(ctx context.Context, id, adminID string) error {
	return s.repo.SetStatus(ctx, id, model.TaskStatusCompleted, adminID)
}

func (s *taskService) Cancel(ctx context.Context, id, adminID string) error {
	return s.repo.SetStatus(ctx, id, model.TaskStatusCancelled, adminID)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
