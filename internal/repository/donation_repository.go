package repository

import (
	"context"
	"time"

	"github.com/kafala/backend/internal/model"
)

// DonationStatusUpdate carries the fields written by a donation state
// transition (confirm / cancel / redeem).
type DonationStatusUpdate struct {
	Status           string
	PaymentReference string
	AdminNotes       string
	ConfirmedBy      string
	ConfirmedAt      *time.Time
}

// DonationRepository handles persistence for donations.
type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) error
	GetByID(ctx context.Context, id string) (*model.Donation, error)
	GetByPaymentCode(ctx context.Context, code string) (*model.Donation, error)
	// List returns donations for the audit view, optionally filtered by
	// lifecycle status and/or case.
	List(ctx context.Context, status, caseID string, limit, offset int) ([]*model.Donation, error)
	ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Donation, error)
	// UpdateStatus applies a state transition, guarded by the expected
	// current statuses. Returns ErrNotFound when the donation is missing
	// or not in one of fromStatuses.
	UpdateStatus(ctx context.Context, id string, upd DonationStatusUpdate, fromStatuses ...string) error
	// Redeem marks the legacy single-shot full disbursement.
	Redeem(ctx context.Context, id, adminID, notes string) error
}
