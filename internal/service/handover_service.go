package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// TargetOriginal is the sentinel target meaning "the donation's own case".
const TargetOriginal = "original"

// HandoverInput carries the handover dialog's form.
type HandoverInput struct {
	DonationID string    `json:"donation_id"`
	TargetCase string    `json:"target_case"` // case id or "original"
	Amount     int       `json:"amount"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes"`
	// WithReport enables the monthly-report side effect.
	WithReport bool `json:"with_report"`
	// ReportImages are evidence photos already uploaded to storage.
	ReportImages []string `json:"report_images"`
}

// HandoverService records disbursements against confirmed donations.
type HandoverService interface {
	Record(ctx context.Context, adminID string, in HandoverInput) (*model.Handover, error)
	ListByDonation(ctx context.Context, donationID string) ([]*model.Handover, error)
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Handover, error)
	ListByMonth(ctx context.Context, year, month int) ([]*model.Handover, error)
	MonthlySums(ctx context.Context) ([]*model.HandoverMonthSum, error)
}

type handoverService struct {
	repo         repository.HandoverRepository
	donationRepo repository.DonationRepository
	caseRepo     repository.CaseRepository
}

// NewHandoverService creates a HandoverService.
func NewHandoverService(
	repo repository.HandoverRepository,
	donationRepo repository.DonationRepository,
	caseRepo repository.CaseRepository,
) HandoverService {
	return &handoverService{repo: repo, donationRepo: donationRepo, caseRepo: caseRepo}
}

func (s *handoverService) Record(ctx context.Context, adminID string, in HandoverInput) (*model.Handover, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	d, err := s.donationRepo.GetByID(ctx, in.DonationID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DonationStatusConfirmed {
		return nil, repository.ErrNotConfirmed
	}
	// Early reject on a stale read; the repository re-checks under the
	// donation row lock, which is the authoritative guard.
	if in.Amount > d.Remaining() {
		return nil, repository.ErrExceedsRemaining
	}

	targetCase := in.TargetCase
	if targetCase == "" || targetCase == TargetOriginal {
		targetCase = d.CaseID
	} else if _, err := s.caseRepo.GetByID(ctx, targetCase); err != nil {
		return nil, fmt.Errorf("target case: %w", err)
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	h := &model.Handover{
		DonationID:   in.DonationID,
		CaseID:       targetCase,
		Amount:       in.Amount,
		HandoverDate: date,
		Notes:        in.Notes,
		CreatedBy:    adminID,
	}

	var report *model.MonthlyReport
	if in.WithReport {
		report = &model.MonthlyReport{
			CaseID:    targetCase,
			Month:     date.Format("2006-01"),
			Body:      handoverReportBody(in.Amount, date),
			Images:    in.ReportImages,
			CreatedBy: adminID,
		}
		if report.Images == nil {
			report.Images = []string{}
		}
	}

	if err := s.repo.Record(ctx, h, report); err != nil {
		return nil, err
	}
	return h, nil
}

// handoverReportBody builds the donor-facing summary line for the
// auto-created monthly report.
func handoverReportBody(amount int, date time.Time) string {
	return fmt.Sprintf("تم تسليم مبلغ %d بتاريخ %s", amount, date.Format("2006-01-02"))
}

func (s *handoverService) ListByDonation(ctx context.Context, donationID string) ([]*model.Handover, error) {
	return s.repo.ListByDonation(ctx, donationID)
}

func (s *handoverService) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Handover, error) {
	return s.repo.ListByCase(ctx, caseID, limit, offset)
}

func (s *handoverService) ListByMonth(ctx context.Context, year, month int) ([]*model.Handover, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month out of range", ErrValidation)
	}
	return s.repo.ListByMonth(ctx, year, month)
}

func (s *handoverService) MonthlySums(ctx context.Context) ([]*model.HandoverMonthSum, error) {
	return s.repo.MonthlySums(ctx)
}
