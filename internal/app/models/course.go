package models

import "time"

// Course is a top level learning unit owned by the user that created it.
type Course struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Image       string    `json:"image" db:"image"`
	Instructor  string    `json:"instructor" db:"instructor"`
	Category    string    `json:"category" db:"category"`
	Level       string    `json:"level" db:"level"`
	Duration    string    `json:"duration" db:"duration"`
	CreatedByID string    `json:"createdById" db:"created_by_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	CreatedBy  *UserSummary       `json:"createdBy,omitempty"`
	Structures []*CourseStructure `json:"structures"`
}

// CourseSummary is the parent course projection embedded in a structure
type CourseSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Instructor string `json:"instructor"`
}
