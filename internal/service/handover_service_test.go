package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// In-memory HandoverRepository maintaining donation totals like the real
// transaction does.
// ---------------------------------------------------------------------------

type memHandoverRepo struct {
	donations map[string]*model.Donation
	handovers []*model.Handover
	reports   map[string]*model.MonthlyReport // key: caseID+month
}

func newMemHandoverRepo(donations ...*model.Donation) *memHandoverRepo {
	r := &memHandoverRepo{
		donations: map[string]*model.Donation{},
		reports:   map[string]*model.MonthlyReport{},
	}
	for _, d := range donations {
		r.donations[d.ID] = d
	}
	return r
}

func (r *memHandoverRepo) Record(_ context.Context, h *model.Handover, report *model.MonthlyReport) error {
	d, ok := r.donations[h.DonationID]
	if !ok {
		return repository.ErrNotFound
	}
	if d.Status != model.DonationStatusConfirmed {
		return repository.ErrNotConfirmed
	}
	if h.Amount <= 0 || h.Amount > d.Remaining() {
		return repository.ErrExceedsRemaining
	}
	r.handovers = append(r.handovers, h)
	d.TotalHandedOver += h.Amount
	d.HandoverStatus = model.DeriveHandoverStatus(d.TotalHandedOver, d.Amount)

	if report != nil {
		key := report.CaseID + "/" + report.Month
		if existing, ok := r.reports[key]; ok {
			existing.Images = append(existing.Images, report.Images...)
		} else {
			r.reports[key] = report
		}
	}
	return nil
}

func (r *memHandoverRepo) ListByDonation(_ context.Context, donationID string) ([]*model.Handover, error) {
	var list []*model.Handover
	for _, h := range r.handovers {
		if h.DonationID == donationID {
			list = append(list, h)
		}
	}
	return list, nil
}

func (r *memHandoverRepo) ListByCase(_ context.Context, caseID string, _, _ int) ([]*model.Handover, error) {
	var list []*model.Handover
	for _, h := range r.handovers {
		if h.CaseID == caseID {
			list = append(list, h)
		}
	}
	return list, nil
}

func (r *memHandoverRepo) ListByMonth(_ context.Context, _, _ int) ([]*model.Handover, error) {
	return r.handovers, nil
}

func (r *memHandoverRepo) MonthlySums(_ context.Context) ([]*model.HandoverMonthSum, error) {
	return nil, nil
}

func newHandoverFixture() (HandoverService, *memHandoverRepo, *model.Donation) {
	d := &model.Donation{
		ID:             "don-1",
		CaseID:         "case-x",
		Amount:         1000,
		Status:         model.DonationStatusConfirmed,
		HandoverStatus: model.HandoverStatusNone,
	}
	repo := newMemHandoverRepo(d)
	donations := &mockDonationRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Donation, error) {
			if d, ok := repo.donations[id]; ok {
				return d, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	known := map[string]*model.Case{
		"case-x": {ID: "case-x"},
		"case-y": {ID: "case-y"},
	}
	cases := &mockCaseRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Case, error) {
			if c, ok := known[id]; ok {
				return c, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	return NewHandoverService(repo, donations, cases), repo, d
}

// ---------------------------------------------------------------------------
// Record tests
// ---------------------------------------------------------------------------

func TestHandoverService_Record_PartialThenFullThenRejected(t *testing.T) {
	svc, _, d := newHandoverFixture()
	ctx := context.Background()

	// 400 against the original case
	h1, err := svc.Record(ctx, "admin-1", HandoverInput{
		DonationID: "don-1", TargetCase: TargetOriginal, Amount: 400,
	})
	if err != nil {
		t.Fatalf("first handover: %v", err)
	}
	if h1.CaseID != "case-x" {
		t.Errorf("expected original case-x, got %q", h1.CaseID)
	}
	if d.TotalHandedOver != 400 || d.HandoverStatus != model.HandoverStatusPartial {
		t.Errorf("after 400: total=%d status=%s", d.TotalHandedOver, d.HandoverStatus)
	}

	// 600 redirected to a different case
	h2, err := svc.Record(ctx, "admin-1", HandoverInput{
		DonationID: "don-1", TargetCase: "case-y", Amount: 600,
	})
	if err != nil {
		t.Fatalf("second handover: %v", err)
	}
	if h2.CaseID != "case-y" {
		t.Errorf("expected case-y, got %q", h2.CaseID)
	}
	if d.TotalHandedOver != 1000 || d.HandoverStatus != model.HandoverStatusFull {
		t.Errorf("after 600: total=%d status=%s", d.TotalHandedOver, d.HandoverStatus)
	}

	// any further positive amount must be rejected
	if _, err := svc.Record(ctx, "admin-1", HandoverInput{
		DonationID: "don-1", TargetCase: TargetOriginal, Amount: 1,
	}); !errors.Is(err, repository.ErrExceedsRemaining) {
		t.Errorf("expected ErrExceedsRemaining, got %v", err)
	}
}

func TestHandoverService_Record_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newHandoverFixture()

	for _, amount := range []int{0, -50} {
		if _, err := svc.Record(context.Background(), "admin-1", HandoverInput{
			DonationID: "don-1", Amount: amount,
		}); !errors.Is(err, ErrValidation) {
			t.Errorf("amount %d: expected ErrValidation, got %v", amount, err)
		}
	}
}

func TestHandoverService_Record_RejectsUnconfirmedDonation(t *testing.T) {
	svc, repo, _ := newHandoverFixture()
	repo.donations["don-2"] = &model.Donation{
		ID: "don-2", CaseID: "case-x", Amount: 500,
		Status: model.DonationStatusPending,
	}

	if _, err := svc.Record(context.Background(), "admin-1", HandoverInput{
		DonationID: "don-2", Amount: 100,
	}); !errors.Is(err, repository.ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestHandoverService_Record_RejectsAmountOverRemaining(t *testing.T) {
	svc, _, _ := newHandoverFixture()

	if _, err := svc.Record(context.Background(), "admin-1", HandoverInput{
		DonationID: "don-1", Amount: 1001,
	}); !errors.Is(err, repository.ErrExceedsRemaining) {
		t.Errorf("expected ErrExceedsRemaining, got %v", err)
	}
}

func TestHandoverService_Record_RejectsUnknownTargetCase(t *testing.T) {
	svc, _, _ := newHandoverFixture()

	if _, err := svc.Record(context.Background(), "admin-1", HandoverInput{
		DonationID: "don-1", TargetCase: "case-missing", Amount: 100,
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHandoverService_Record_ReportSideEffect(t *testing.T) {
	svc, repo, _ := newHandoverFixture()
	ctx := context.Background()
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Record(ctx, "admin-1", HandoverInput{
		DonationID: "don-1", TargetCase: TargetOriginal, Amount: 200,
		Date: date, WithReport: true, ReportImages: []string{"/uploads/a.jpg"},
	}); err != nil {
		t.Fatalf("first handover: %v", err)
	}

	rep, ok := repo.reports["case-x/2026-08"]
	if !ok {
		t.Fatal("expected report for case-x/2026-08")
	}
	if len(rep.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(rep.Images))
	}

	// same month: images appended, no second report
	if _, err := svc.Record(ctx, "admin-1", HandoverInput{
		DonationID: "don-1", TargetCase: TargetOriginal, Amount: 100,
		Date: date.AddDate(0, 0, 5), WithReport: true, ReportImages: []string{"/uploads/b.jpg"},
	}); err != nil {
		t.Fatalf("second handover: %v", err)
	}
	if len(repo.reports) != 1 {
		t.Errorf("expected a single report, got %d", len(repo.reports))
	}
	if len(rep.Images) != 2 {
		t.Errorf("expected 2 images after append, got %d", len(rep.Images))
	}
}

func TestHandoverService_ListByMonth_RejectsBadMonth(t *testing.T) {
	svc, _, _ := newHandoverFixture()

	if _, err := svc.ListByMonth(context.Background(), 2026, 13); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
