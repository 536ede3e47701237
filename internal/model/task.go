package model

import "time"

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task statuses. pending -> completed|cancelled, both terminal.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
	TaskStatusCancelled = "cancelled"
)

// CaseTask is an internal admin to-do attached to a case.
type CaseTask struct {
	ID       string     `json:"id"`
	CaseID   string     `json:"case_id"`
	Title    string     `json:"title"`
	Notes    string     `json:"notes,omitempty"`
	Priority string     `json:"priority"`
	Status   string     `json:"status"`
	DueDate  *time.Time `json:"due_date,omitempty"`

	CreatedBy   string     `json:"-"`
	CompletedBy string     `json:"-"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
