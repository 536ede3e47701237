package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// ReportRepository handles persistence for monthly reports.
type ReportRepository interface {
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.MonthlyReport, error)
	GetByID(ctx context.Context, id string) (*model.MonthlyReport, error)
	GetByCaseMonth(ctx context.Context, caseID, month string) (*model.MonthlyReport, error)
	// Create inserts a report; at most one exists per (case, month).
	Create(ctx context.Context, rep *model.MonthlyReport) error
	Update(ctx context.Context, rep *model.MonthlyReport) error
	Delete(ctx context.Context, id string) error
}
