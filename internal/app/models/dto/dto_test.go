package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/coursehub/internal/app/models"
)

func strPtr(s string) *string { return &s }

func TestCreateUserRequestNormalize(t *testing.T) {
	req := CreateUserRequest{Name: "  Jane ", Email: " Jane@Example.COM ", Password: "secret1"}
	req.Normalize()

	assert.Equal(t, "Jane", req.Name)
	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, models.RoleStudent, req.Role)
	assert.Nil(t, req.Avatar)
}

func TestUpdateCourseRequestChanges(t *testing.T) {
	req := UpdateCourseRequest{Title: strPtr("  New title "), Level: strPtr("Advanced")}
	req.Normalize()

	assert.Equal(t, map[string]interface{}{
		"title": "New title",
		"level": "Advanced",
	}, req.Changes())
}

func TestUpdateCourseStructureRequestClearsEmptyLinks(t *testing.T) {
	order := 3
	req := UpdateCourseStructureRequest{
		Order:    &order,
		VideoURL: strPtr("  "),
		PDFURL:   strPtr(" https://example.com/a.pdf "),
	}
	req.Normalize()

	assert.Nil(t, req.VideoURL)
	assert.Equal(t, map[string]interface{}{
		`"order"`: 3,
		"video_url": nil,
		"pdf_url":   "https://example.com/a.pdf",
	}, req.Changes())
}

func TestUpdateProfileRequestIgnoresMissingFields(t *testing.T) {
	req := UpdateProfileRequest{}
	req.Normalize()
	assert.Empty(t, req.Changes())
}

func TestSearchInfo(t *testing.T) {
	q := CourseSearchQuery{Query: "go", SortBy: "title", SortOrder: "asc"}
	info := q.Info()
	assert.Equal(t, "go", info.Query)
	assert.Equal(t, "title", info.SortBy)
	assert.Equal(t, "asc", info.SortOrder)
}
