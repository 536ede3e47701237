package model

import "time"

// Donation lifecycle statuses. "redeemed" is a legacy terminal state from
// the old single-shot redeem flow, kept for existing rows.
const (
	DonationStatusPending   = "pending"
	DonationStatusConfirmed = "confirmed"
	DonationStatusCancelled = "cancelled"
	DonationStatusRedeemed  = "redeemed"
)

// Handover statuses derived from total_handed_over vs amount.
const (
	HandoverStatusNone    = "none"
	HandoverStatusPartial = "partial"
	HandoverStatusFull    = "full"
)

// Donation types.
const (
	DonationTypeMonthly = "monthly"
	DonationTypeCustom  = "custom"
)

// Donation represents a monetary pledge tied to exactly one case.
type Donation struct {
	ID            string `json:"id"`
	CaseID        string `json:"case_id"`
	DonorName     string `json:"donor_name,omitempty"` // empty = anonymous
	DonorPhone    string `json:"donor_phone,omitempty"`
	Amount        int    `json:"amount"`
	DonationType  string `json:"donation_type"`
	MonthsPledged int    `json:"months_pledged"`
	Status        string `json:"status"`
	PaymentCode   string `json:"payment_code"`

	PaymentReference string     `json:"payment_reference,omitempty"`
	AdminNotes       string     `json:"admin_notes,omitempty"`
	ConfirmedBy      string     `json:"-"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`

	// Derived: maintained transactionally alongside the handover ledger.
	TotalHandedOver int    `json:"total_handed_over"`
	HandoverStatus  string `json:"handover_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Remaining returns the amount not yet handed over.
func (d *Donation) Remaining() int {
	return d.Amount - d.TotalHandedOver
}

// DeriveHandoverStatus returns the handover status implied by a running
// total against the donated amount.
func DeriveHandoverStatus(total, amount int) string {
	switch {
	case total <= 0:
		return HandoverStatusNone
	case total < amount:
		return HandoverStatusPartial
	default:
		return HandoverStatusFull
	}
}
