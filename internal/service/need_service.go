package service

import (
	"context"
	"fmt"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// NeedService manages a case's itemized monthly needs.
type NeedService interface {
	ListByCase(ctx context.Context, caseID string) ([]*model.MonthlyNeed, error)
	// ReplaceAll swaps the case's needs and recomputes its monthly cost.
	ReplaceAll(ctx context.Context, caseID string, needs []*model.MonthlyNeed) error
}

type needService struct {
	repo repository.NeedRepository
}

// NewNeedService creates a NeedService.
func NewNeedService(repo repository.NeedRepository) NeedService {
	return &needService{repo: repo}
}

func (s *needService) ListByCase(ctx context.Context, caseID string) ([]*model.MonthlyNeed, error) {
	return s.repo.ListByCase(ctx, caseID)
}

func (s *needService) ReplaceAll(ctx context.Context, caseID string, needs []*model.MonthlyNeed) error {
	for _, n := range needs {
		if n.Label == "" {
			return fmt.Errorf("%w: need label is required", ErrValidation)
		}
		if n.Amount < 0 {
			return fmt.Errorf("%w: need amount cannot be negative", ErrValidation)
		}
	}
	return s.repo.ReplaceAll(ctx, caseID, needs)
}
