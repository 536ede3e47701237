package model

import "time"

// Handover is one immutable disbursement event against a confirmed
// donation. The target case may differ from the donation's own case, which
// is the mechanism for redirecting surplus funds.
type Handover struct {
	ID           string    `json:"id"`
	DonationID   string    `json:"donation_id"`
	CaseID       string    `json:"case_id"`
	Amount       int       `json:"handover_amount"`
	HandoverDate time.Time `json:"handover_date"`
	Notes        string    `json:"notes,omitempty"`
	CreatedBy    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Transient, joined for list views
	CaseTitle   string `json:"case_title,omitempty"`
	PaymentCode string `json:"payment_code,omitempty"`
}

// HandoverMonthSum is one month's total disbursement, for the admin
// calendar view.
type HandoverMonthSum struct {
	Month  string `json:"month"` // YYYY-MM
	Amount int    `json:"amount"`
	Count  int    `json:"count"`
}
