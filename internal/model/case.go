package model

import (
	"math"
	"time"
)

// Care types supported for a case.
const (
	CareTypeSponsorship     = "sponsorship"
	CareTypeOneTimeDonation = "one_time_donation"
	CareTypeCancelled       = "cancelled"
)

// Case represents a beneficiary family or individual eligible for donations.
type Case struct {
	ID            string `json:"id"`
	TitleAr       string `json:"title_ar"`
	TitleEn       string `json:"title_en,omitempty"`
	DescriptionAr string `json:"description_ar"`
	DescriptionEn string `json:"description_en,omitempty"`
	CareType      string `json:"care_type"`
	MonthlyCost   int    `json:"monthly_cost"`
	MonthsNeeded  int    `json:"months_needed"`
	MonthsCovered int    `json:"months_covered"`
	TargetAmount  int    `json:"target_amount"` // one-time cases only
	ZakatEligible bool   `json:"zakat_eligible"`
	Published     bool   `json:"published"`

	// Donation-display configuration
	MinCustomAmount int  `json:"min_custom_amount"`
	AllowMonthly    bool `json:"allow_monthly"`
	AllowCustom     bool `json:"allow_custom"`

	// Phone of the responsible party, used by the beneficiary followup flow.
	// Never exposed in public JSON.
	ContactPhone string `json:"-"`

	ImageURL  string    `json:"image_url,omitempty"`
	CreatedBy string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Transient: aggregated per fetch, not stored on the row
	Financials *CaseFinancials `json:"financials,omitempty"`
	Charities  []*Charity      `json:"charities,omitempty"`
}

// CaseFinancials holds per-case money aggregates recomputed on every list
// fetch from confirmed donations, legacy redeemed donations and the
// handover ledger.
type CaseFinancials struct {
	ConfirmedAmount int `json:"confirmed_amount"`
	RedeemedAmount  int `json:"redeemed_amount"`
	HandoverAmount  int `json:"handover_amount"`
	RemainingAmount int `json:"remaining_amount"`
	TotalSecured    int `json:"total_secured_money"`
	ProgressPercent int `json:"progress_percent"`
}

// CasePatch holds fields that can be partially updated on a case.
type CasePatch struct {
	Published     *bool
	CareType      *string
	MonthsCovered *int
}

// TargetTotal returns the full financial target of the case: monthly cost
// over the needed months for sponsorships, or the one-time target amount.
func (c *Case) TargetTotal() int {
	if c.CareType == CareTypeOneTimeDonation {
		return c.TargetAmount
	}
	return c.MonthlyCost * c.MonthsNeeded
}

// ProgressPercent returns the secured-to-target ratio rounded to a whole
// percentage. A zero target reports 0 to avoid division by zero.
func (c *Case) ProgressPercent(secured int) int {
	target := c.TargetTotal()
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(secured) / float64(target) * 100))
}
