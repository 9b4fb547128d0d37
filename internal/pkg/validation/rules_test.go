package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

type sampleItem struct {
	ID    string `json:"id" validate:"required"`
	Order int    `json:"order" validate:"required,min=1"`
}

type sampleRequest struct {
	Title    string       `json:"title" validate:"required,min=3,max=100"`
	Email    string       `json:"email" validate:"required,email"`
	Image    *string      `json:"image" validate:"omitempty,url"`
	Lectures int          `json:"lectures" validate:"required,min=1"`
	Items    []sampleItem `json:"items" validate:"omitempty,min=1,dive"`
}

func TestStructValid(t *testing.T) {
	req := sampleRequest{Title: "Go 101", Email: "a@b.co", Lectures: 3}
	assert.NoError(t, Struct(&req))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	bad := "not a url"
	req := sampleRequest{
		Title: "Go",
		Email: "nope",
		Image: &bad,
		Items: []sampleItem{{ID: "", Order: 0}},
	}

	err := Struct(&req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	var fieldErrs Errors
	require.True(t, errors.As(err, &fieldErrs))

	byField := map[string]string{}
	for _, fe := range fieldErrs {
		byField[fe.Field] = fe.Message
	}

	assert.Equal(t, "title must be at least 3 characters", byField["title"])
	assert.Equal(t, "email must be a valid email address", byField["email"])
	assert.Equal(t, "image must be a valid URL", byField["image"])
	assert.Equal(t, "lectures is required", byField["lectures"])
	assert.Equal(t, "id is required", byField["items[0].id"])
	assert.Equal(t, "order is required", byField["items[0].order"])
}

type secretRequest struct {
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

func TestMaxBytesCountsEncodedLength(t *testing.T) {
	assert.NoError(t, Struct(&secretRequest{Password: strings.Repeat("a", PasswordMaxBytes)}))

	// 40 runes is under max=72 but encodes to 80 bytes
	err := Struct(&secretRequest{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	var fieldErrs Errors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "password", fieldErrs[0].Field)
	assert.Equal(t, "password must be at most 72 bytes", fieldErrs[0].Message)
}

func TestField(t *testing.T) {
	err := Field("courseId", "courseId is required")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "courseId is required")
}
