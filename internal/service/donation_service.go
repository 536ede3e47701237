package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// DonationInput carries the public pledge form.
type DonationInput struct {
	CaseID        string `json:"case_id"`
	DonorName     string `json:"donor_name"`
	DonorPhone    string `json:"donor_phone"`
	Amount        int    `json:"amount"`
	DonationType  string `json:"donation_type"`
	MonthsPledged int    `json:"months_pledged"`
}

// DonationService provides business logic for the donation lifecycle.
type DonationService interface {
	// Create records a public pledge against a case and assigns a
	// human-readable payment code.
	Create(ctx context.Context, in DonationInput) (*model.Donation, error)
	GetByID(ctx context.Context, id string) (*model.Donation, error)
	GetByPaymentCode(ctx context.Context, code string) (*model.Donation, error)
	List(ctx context.Context, status, caseID string, limit, offset int) ([]*model.Donation, error)
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Donation, error)
	// Confirm verifies payment: pending -> confirmed, stamping the admin.
	Confirm(ctx context.Context, id, adminID, paymentReference, notes string) error
	// Cancel is permitted from pending or confirmed.
	Cancel(ctx context.Context, id, adminID, notes string) error
	// Redeem is the legacy single-shot full disbursement: confirmed -> redeemed.
	Redeem(ctx context.Context, id, adminID, notes string) error
}

type donationService struct {
	repo     repository.DonationRepository
	caseRepo repository.CaseRepository
}

// NewDonationService creates a DonationService.
func NewDonationService(repo repository.DonationRepository, caseRepo repository.CaseRepository) DonationService {
	return &donationService{repo: repo, caseRepo: caseRepo}
}

// NewPaymentCode generates a human-readable payment code, e.g. KAF-3F2A9C40.
func NewPaymentCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "KAF-" + raw[:8]
}

func (s *donationService) Create(ctx context.Context, in DonationInput) (*model.Donation, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.DonationType != model.DonationTypeMonthly && in.DonationType != model.DonationTypeCustom {
		return nil, fmt.Errorf("%w: unknown donation type %q", ErrValidation, in.DonationType)
	}

	c, err := s.caseRepo.GetByID(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}
	if !c.Published || c.CareType == model.CareTypeCancelled {
		return nil, fmt.Errorf("%w: case is not accepting donations", ErrValidation)
	}
	switch in.DonationType {
	case model.DonationTypeMonthly:
		if !c.AllowMonthly {
			return nil, fmt.Errorf("%w: monthly donations are disabled for this case", ErrValidation)
		}
		if in.MonthsPledged <= 0 {
			return nil, fmt.Errorf("%w: months_pledged must be positive", ErrValidation)
		}
	case model.DonationTypeCustom:
		if !c.AllowCustom {
			return nil, fmt.Errorf("%w: custom donations are disabled for this case", ErrValidation)
		}
		if in.Amount < c.MinCustomAmount {
			return nil, fmt.Errorf("%w: amount below case minimum", ErrValidation)
		}
	}

	d := &model.Donation{
		CaseID:        in.CaseID,
		DonorName:     in.DonorName,
		DonorPhone:    in.DonorPhone,
		Amount:        in.Amount,
		DonationType:  in.DonationType,
		MonthsPledged: in.MonthsPledged,
		PaymentCode:   NewPaymentCode(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *donationService) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *donationService) GetByPaymentCode(ctx context.Context, code string) (*model.Donation, error) {
	return s.repo.GetByPaymentCode(ctx, code)
}

func (s *donationService) List(ctx context.Context, status, caseID string, limit, offset int) ([]*model.Donation, error) {
	return s.repo.List(ctx, status, caseID, limit, offset)
}

func (s *donationService) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Donation, error) {
	return s.repo.ListByCase(ctx, caseID, limit, offset)
}

func (s *donationService) Confirm(ctx context.Context, id, adminID, paymentReference, notes string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status != model.DonationStatusPending {
		return fmt.Errorf("%w: cannot confirm from %s", ErrInvalidTransition, d.Status)
	}

	now := time.Now()
	return s.repo.UpdateStatus(ctx, id, repository.DonationStatusUpdate{
		Status:           model.DonationStatusConfirmed,
		PaymentReference: paymentReference,
		AdminNotes:       notes,
		ConfirmedBy:      adminID,
		ConfirmedAt:      &now,
	}, model.DonationStatusPending)
}

func (s *donationService) Cancel(ctx context.Context, id, adminID, notes string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status != model.DonationStatusPending && d.Status != model.DonationStatusConfirmed {
		return fmt.Errorf("%w: cannot cancel from %s", ErrInvalidTransition, d.Status)
	}
	// Cancelling would strand the recorded handovers: the donation drops
	// out of the confirmed sum while its ledger rows keep counting.
	if d.TotalHandedOver > 0 {
		return fmt.Errorf("%w: cannot cancel after handovers", ErrInvalidTransition)
	}

	return s.repo.UpdateStatus(ctx, id, repository.DonationStatusUpdate{
		Status:     model.DonationStatusCancelled,
		AdminNotes: notes,
	}, model.DonationStatusPending, model.DonationStatusConfirmed)
}

func (s *donationService) Redeem(ctx context.Context, id, adminID, notes string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status != model.DonationStatusConfirmed {
		return fmt.Errorf("%w: cannot redeem from %s", ErrInvalidTransition, d.Status)
	}
	// Redeem forces the full amount delivered; a partially-handed-over
	// donation would have its partial counted twice in the case sums.
	if d.TotalHandedOver > 0 {
		return fmt.Errorf("%w: cannot redeem after handovers", ErrInvalidTransition)
	}

	return s.repo.Redeem(ctx, id, adminID, notes)
}
