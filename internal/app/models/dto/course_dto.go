package dto

import "strings"

// CreateCourseRequest represents the data needed to create a course
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100" example:"Go for Backend Developers"`
	Description string `json:"description" validate:"required,min=10,max=1000" example:"Build production services in Go"`
	Image       string `json:"image" validate:"required,url" example:"https://example.com/go.png"`
	Instructor  string `json:"instructor" validate:"required,min=2,max=50" example:"Rob Pike"`
	Category    string `json:"category" validate:"required,min=1" example:"Programming"`
	Level       string `json:"level" validate:"required,min=1" example:"Beginner"`
	Duration    string `json:"duration" validate:"required,min=1" example:"12h"`
}

// Normalize trims all text fields
func (r *CreateCourseRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Image = strings.TrimSpace(r.Image)
	r.Instructor = strings.TrimSpace(r.Instructor)
	r.Category = strings.TrimSpace(r.Category)
	r.Level = strings.TrimSpace(r.Level)
	r.Duration = strings.TrimSpace(r.Duration)
}

// UpdateCourseRequest is a partial course update; nil fields are left unchanged
type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,min=10,max=1000"`
	Image       *string `json:"image" validate:"omitempty,url"`
	Instructor  *string `json:"instructor" validate:"omitempty,min=2,max=50"`
	Category    *string `json:"category" validate:"omitempty,min=1"`
	Level       *string `json:"level" validate:"omitempty,min=1"`
	Duration    *string `json:"duration" validate:"omitempty,min=1"`
}

// Normalize trims all supplied fields
func (r *UpdateCourseRequest) Normalize() {
	for _, s := range []*string{r.Title, r.Description, r.Image, r.Instructor, r.Category, r.Level, r.Duration} {
		trimPtr(s)
	}
}

// Changes returns the column updates carried by the request
func (r *UpdateCourseRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			changes[column] = *v
		}
	}
	set("title", r.Title)
	set("description", r.Description)
	set("image", r.Image)
	set("instructor", r.Instructor)
	set("category", r.Category)
	set("level", r.Level)
	set("duration", r.Duration)
	return changes
}

// CourseListQuery filters the plain course list
type CourseListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Level    string
}

// CourseSearchQuery filters the extended course search
type CourseSearchQuery struct {
	Page       int
	Limit      int
	Query      string
	Category   string
	Level      string
	Instructor string
	SortBy     string
	SortOrder  string
}

// Info echoes the effective search parameters back to the client
func (q CourseSearchQuery) Info() *SearchInfo {
	return &SearchInfo{
		Query:      q.Query,
		Category:   q.Category,
		Level:      q.Level,
		Instructor: q.Instructor,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
}

// SearchInfo is attached to search responses
type SearchInfo struct {
	Query      string `json:"query"`
	Category   string `json:"category,omitempty"`
	Level      string `json:"level,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	SortBy     string `json:"sortBy"`
	SortOrder  string `json:"sortOrder"`
}
