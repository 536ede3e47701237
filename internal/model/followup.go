package model

import "time"

// Followup task levels.
const (
	TaskLevelCase = "case_level"
	TaskLevelKid  = "kid_level"
)

// Followup answer types.
const (
	AnswerTypeText        = "text"
	AnswerTypeMultiChoice = "multi_choice"
	AnswerTypePhoto       = "photo"
)

// Followup statuses. pending is the only non-terminal state.
const (
	FollowupStatusPending   = "pending"
	FollowupStatusCompleted = "completed"
	FollowupStatusCancelled = "cancelled"
)

// FollowupAction is an admin-defined question or to-do directed at a case's
// responsible party, optionally scoped to specific kids.
type FollowupAction struct {
	ID          string   `json:"id"`
	CaseID      string   `json:"case_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	TaskLevel   string   `json:"task_level"`
	AnswerType  string   `json:"answer_type"`
	Options     []string `json:"options,omitempty"` // multi_choice only
	KidIDs      []string `json:"kid_ids"`           // kid_level only, may be empty

	// MapToField routes a kid-level answer into the named kid-profile
	// field (see KidField* constants). Empty = no mapping.
	MapToField string `json:"map_to_field,omitempty"`

	Status string `json:"status"`

	// Case-level answer, captured on the row itself.
	Answer         string     `json:"answer,omitempty"`
	AnswerPhotoURL string     `json:"answer_photo_url,omitempty"`
	AnsweredAt     *time.Time `json:"answered_at,omitempty"`

	CreatedBy   string     `json:"-"`
	CompletedBy string     `json:"-"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// KidAnswer is a kid-level answer keyed by (action, kid); a second submit
// for the same pair overwrites the first.
type KidAnswer struct {
	ActionID   string    `json:"action_id"`
	KidID      string    `json:"kid_id"`
	Answer     string    `json:"answer,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	AnsweredAt time.Time `json:"answered_at"`
}
