package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// CaseServiceImpl implements CaseService.
type CaseServiceImpl struct {
	repo        repository.CaseRepository
	charityRepo repository.CharityRepository
}

// NewCaseService creates a CaseServiceImpl.
func NewCaseService(repo repository.CaseRepository, charityRepo repository.CharityRepository) CaseService {
	return &CaseServiceImpl{repo: repo, charityRepo: charityRepo}
}

func validCareType(t string) bool {
	switch t {
	case model.CareTypeSponsorship, model.CareTypeOneTimeDonation, model.CareTypeCancelled:
		return true
	}
	return false
}

func (s *CaseServiceImpl) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error) {
	return s.repo.List(ctx, publishedOnly, limit, offset)
}

// GetByID loads the case and attaches its charity links. A charity lookup
// failure is logged and skipped rather than failing the whole read.
func (s *CaseServiceImpl) GetByID(ctx context.Context, id string) (*model.Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	charities, err := s.charityRepo.ListByCase(ctx, id)
	if err != nil {
		slog.Warn("charity list failed", "error", err, "case_id", id)
	} else {
		c.Charities = charities
	}
	return c, nil
}

func (s *CaseServiceImpl) FindByPhone(ctx context.Context, phone string) (*model.Case, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return s.repo.FindByPhone(ctx, phone)
}

func (s *CaseServiceImpl) Create(ctx context.Context, c *model.Case) error {
	if c.TitleAr == "" {
		return fmt.Errorf("%w: title_ar is required", ErrValidation)
	}
	if !validCareType(c.CareType) {
		return fmt.Errorf("%w: unknown care type %q", ErrValidation, c.CareType)
	}
	if c.CareType == model.CareTypeOneTimeDonation && c.TargetAmount <= 0 {
		return fmt.Errorf("%w: one-time cases require a target amount", ErrValidation)
	}
	if c.CareType == model.CareTypeSponsorship && (c.MonthlyCost <= 0 || c.MonthsNeeded <= 0) {
		return fmt.Errorf("%w: sponsorship cases require monthly cost and months", ErrValidation)
	}
	return s.repo.Create(ctx, c)
}

func (s *CaseServiceImpl) Update(ctx context.Context, c *model.Case) error {
	if !validCareType(c.CareType) {
		return fmt.Errorf("%w: unknown care type %q", ErrValidation, c.CareType)
	}
	return s.repo.Update(ctx, c)
}

func (s *CaseServiceImpl) Patch(ctx context.Context, id string, patch model.CasePatch) error {
	if patch.CareType != nil && !validCareType(*patch.CareType) {
		return fmt.Errorf("%w: unknown care type %q", ErrValidation, *patch.CareType)
	}
	return s.repo.Patch(ctx, id, patch)
}

func (s *CaseServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
