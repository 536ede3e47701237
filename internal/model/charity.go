package model

import "time"

// Charity is a partner organization cases can be associated with.
type Charity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MonthlyNeed is one itemized recurring need of a case; the sum of a
// case's needs is its monthly_cost.
type MonthlyNeed struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	Label     string    `json:"label"`
	Amount    int       `json:"amount"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalMonthlyAmount sums the amounts of a case's needs.
func TotalMonthlyAmount(needs []*MonthlyNeed) int {
	total := 0
	for _, n := range needs {
		total += n.Amount
	}
	return total
}
