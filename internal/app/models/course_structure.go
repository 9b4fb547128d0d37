package models

import "time"

// CourseStructure is one lesson of a course. Order ranks it inside the course.
type CourseStructure struct {
	ID        string    `json:"id" db:"id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Lectures  int       `json:"lectures" db:"lectures"`
	Duration  string    `json:"duration" db:"duration"`
	Order     int       `json:"order" db:"order"`
	VideoURL  *string   `json:"videoUrl" db:"video_url"`
	PDFURL    *string   `json:"pdfUrl" db:"pdf_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Course *CourseSummary `json:"course,omitempty"`
}

// StructureOrder is one (id, order) pair of a reorder request
type StructureOrder struct {
	ID    string
	Order int
}
