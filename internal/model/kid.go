package model

import "time"

// Kid-profile fields a followup answer may be mapped onto. These are the
// only case_kids columns the mapping is allowed to write.
const (
	KidFieldHealthStatus = "health_status"
	KidFieldGrade        = "grade"
	KidFieldSchool       = "school"
)

// CaseKid is a child linked to a case.
type CaseKid struct {
	ID           string     `json:"id"`
	CaseID       string     `json:"case_id"`
	Name         string     `json:"name"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	HealthStatus string     `json:"health_status,omitempty"`
	Grade        string     `json:"grade,omitempty"`
	School       string     `json:"school,omitempty"`
	HealthNotes  string     `json:"health_notes,omitempty"`
	EduNotes     string     `json:"edu_notes,omitempty"`

	// Structured histories, stored as JSONB arrays.
	EducationProgress []EducationEntry `json:"education_progress"`
	Certificates      []Certificate    `json:"certificates"`
	Courses           []Course         `json:"courses"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EducationEntry is one school-year progress record.
type EducationEntry struct {
	Year   string `json:"year"`
	Grade  string `json:"grade"`
	Result string `json:"result,omitempty"`
}

// Certificate is an earned certificate with optional evidence photo.
type Certificate struct {
	Title    string `json:"title"`
	Date     string `json:"date,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Course is an ongoing course the kid is enrolled in.
type Course struct {
	Title     string `json:"title"`
	StartedAt string `json:"started_at,omitempty"`
}
