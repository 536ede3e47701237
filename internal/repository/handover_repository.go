package repository

import (
	"context"

	"github.com/kafala/backend/internal/model"
)

// HandoverRepository handles the append-only disbursement ledger.
type HandoverRepository interface {
	// Record writes one handover atomically: it locks the donation row,
	// re-validates the remaining balance under that lock, appends the
	// ledger entry and updates the donation's derived totals. When report
	// is non-nil the monthly-report side effect runs in the same
	// transaction: insert a report for (case, month), or append the
	// report's images to an existing one.
	//
	// Returns ErrNotConfirmed or ErrExceedsRemaining on precondition
	// failure; in either case nothing is written.
	Record(ctx context.Context, h *model.Handover, report *model.MonthlyReport) error
	ListByDonation(ctx context.Context, donationID string) ([]*model.Handover, error)
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Handover, error)
	// ListByMonth returns handovers whose handover_date falls in the given
	// calendar month, for the admin calendar.
	ListByMonth(ctx context.Context, year int, month int) ([]*model.Handover, error)
	// MonthlySums returns per-month disbursement totals for the trailing
	// twelve months.
	MonthlySums(ctx context.Context) ([]*model.HandoverMonthSum, error)
}
