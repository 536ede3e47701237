package service

import (
	"context"
	"fmt"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// CharityService manages the charity registry and case links.
type CharityService interface {
	List(ctx context.Context) ([]*model.Charity, error)
	Create(ctx context.Context, ch *model.Charity) error
	Update(ctx context.Context, ch *model.Charity) error
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, caseID, charityID string) error
	Detach(ctx context.Context, caseID, charityID string) error
}

type charityService struct {
	repo repository.CharityRepository
}

// NewCharityService creates a CharityService.
func NewCharityService(repo repository.CharityRepository) CharityService {
	return &charityService{repo: repo}
}

func (s *charityService) List(ctx context.Context) ([]*model.Charity, error) {
	return s.repo.List(ctx)
}

func (s *charityService) Create(ctx context.Context, ch *model.Charity) error {
	if ch.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.repo.Create(ctx, ch)
}

func (s *charityService) Update(ctx context.Context, ch *model.Charity) error {
	if ch.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.repo.Update(ctx, ch)
}

func (s *charityService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *charityService) Attach(ctx context.Context, caseID, charityID string) error {
	return s.repo.Attach(ctx, caseID, charityID)
}

func (s *charityService) Detach(ctx context.Context, caseID, charityID string) error {
	return s.repo.Detach(ctx, caseID, charityID)
}
