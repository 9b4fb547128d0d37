package dto

import "strings"

// CreateCourseStructureRequest represents a new section of a course
type CreateCourseStructureRequest struct {
	CourseID string  `json:"courseId" validate:"required"`
	Title    string  `json:"title" validate:"required,min=3,max=100" example:"Getting started"`
	Lectures int     `json:"lectures" validate:"required,min=1" example:"5"`
	Duration string  `json:"duration" validate:"required,min=1" example:"45m"`
	Order    int     `json:"order" validate:"required,min=1" example:"1"`
	VideoURL *string `json:"videoUrl" validate:"omitempty,url"`
	PDFURL   *string `json:"pdfUrl" validate:"omitempty,url"`
}

// Normalize trims input and drops empty links
func (r *CreateCourseStructureRequest) Normalize() {
	r.CourseID = strings.TrimSpace(r.CourseID)
	r.Title = strings.TrimSpace(r.Title)
	r.Duration = strings.TrimSpace(r.Duration)
	optionalURL(&r.VideoURL)
	optionalURL(&r.PDFURL)
}

// UpdateCourseStructureRequest is a partial update. A structure cannot be
// moved to another course.
type UpdateCourseStructureRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3,max=100"`
	Lectures *int    `json:"lectures" validate:"omitempty,min=1"`
	Duration *string `json:"duration" validate:"omitempty,min=1"`
	Order    *int    `json:"order" validate:"omitempty,min=1"`
	VideoURL *string `json:"videoUrl" validate:"omitempty,url"`
	PDFURL   *string `json:"pdfUrl" validate:"omitempty,url"`

	clearVideo bool
	clearPDF   bool
}

// Normalize trims input. Empty links clear the stored value.
func (r *UpdateCourseStructureRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Duration)
	r.clearVideo = optionalURL(&r.VideoURL)
	r.clearPDF = optionalURL(&r.PDFURL)
}

// Changes returns the column updates carried by the request
func (r *UpdateCourseStructureRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Title != nil {
		changes["title"] = *r.Title
	}
	if r.Lectures != nil {
		changes["lectures"] = *r.Lectures
	}
	if r.Duration != nil {
		changes["duration"] = *r.Duration
	}
	if r.Order != nil {
		changes[`"order"`] = *r.Order
	}
	switch {
	case r.VideoURL != nil:
		changes["video_url"] = *r.VideoURL
	case r.clearVideo:
		changes["video_url"] = nil
	}
	switch {
	case r.PDFURL != nil:
		changes["pdf_url"] = *r.PDFURL
	case r.clearPDF:
		changes["pdf_url"] = nil
	}
	return changes
}

// ReorderItem assigns a new position to one structure
type ReorderItem struct {
	ID    string `json:"id" validate:"required"`
	Order int    `json:"order" validate:"required,min=1"`
}

// ReorderCourseStructuresRequest assigns new positions to structures of a course
type ReorderCourseStructuresRequest struct {
	Structures []ReorderItem `json:"structures" validate:"required,min=1,dive"`
}
