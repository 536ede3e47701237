package model

import "time"

// MonthlyReport is a narrative update for a case. At most one report exists
// per case per calendar month; handover evidence recorded in the same month
// is appended to the existing report's image list.
type MonthlyReport struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	Month     string    `json:"month"` // YYYY-MM
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	Images    []string  `json:"images"`
	CreatedBy string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
