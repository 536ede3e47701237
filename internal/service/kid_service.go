package service

import (
	"context"
	"fmt"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// KidService provides business logic for case kids.
type KidService interface {
	ListByCase(ctx context.Context, caseID string) ([]*model.CaseKid, error)
	GetByID(ctx context.Context, id string) (*model.CaseKid, error)
	Create(ctx context.Context, kid *model.CaseKid) error
	Update(ctx context.Context, kid *model.CaseKid) error
	Delete(ctx context.Context, id string) error
}

type kidService struct {
	repo     repository.KidRepository
	caseRepo repository.CaseRepository
}

// NewKidService creates a KidService.
func NewKidService(repo repository.KidRepository, caseRepo repository.CaseRepository) KidService {
	return &kidService{repo: repo, caseRepo: caseRepo}
}

func (s *kidService) ListByCase(ctx context.Context, caseID string) ([]*model.CaseKid, error) {
	return s.repo.ListByCase(ctx, caseID)
}

func (s *kidService) GetByID(ctx context.Context, id string) (*model.CaseKid, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *kidService) Create(ctx context.Context, kid *model.CaseKid) error {
	if kid.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := s.caseRepo.GetByID(ctx, kid.CaseID); err != nil {
		return err
	}
	return s.repo.Create(ctx, kid)
}

func (s *kidService) Update(ctx context.Context, kid *model.CaseKid) error {
	if kid.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.repo.Update(ctx, kid)
}

func (s *kidService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
