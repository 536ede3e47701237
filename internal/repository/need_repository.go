package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// NeedRepository handles a case's itemized monthly needs.
type NeedRepository interface {
	ListByCase(ctx context.Context, caseID string) ([]*model.MonthlyNeed, error)
	// ReplaceAll swaps the case's needs for the given list and recomputes
	// cases.monthly_cost in the same transaction.
	ReplaceAll(ctx context.Context, caseID string, needs []*model.MonthlyNeed) error
}
