package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ReportService provides business logic for monthly reports.
type ReportService interface {
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.MonthlyReport, error)
	GetByID(ctx context.Context, id string) (*model.MonthlyReport, error)
	Create(ctx context.Context, rep *model.MonthlyReport) error
	Update(ctx context.Context, rep *model.MonthlyReport) error
	Delete(ctx context.Context, id string) error
}

type reportService struct {
	repo repository.ReportRepository
}

// NewReportService creates a ReportService.
func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.MonthlyReport, error) {
	return s.repo.ListByCase(ctx, caseID, limit, offset)
}

func (s *reportService) GetByID(ctx context.Context, id string) (*model.MonthlyReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reportService) Create(ctx context.Context, rep *model.MonthlyReport) error {
	if !monthPattern.MatchString(rep.Month) {
		return fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	}
	if rep.Body == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	return s.repo.Create(ctx, rep)
}

func (s *reportService) Update(ctx context.Context, rep *model.MonthlyReport) error {
	if rep.Body == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	return s.repo.Update(ctx, rep)
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
