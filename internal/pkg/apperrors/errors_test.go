package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		message  string
	}{
		{ErrUserNotFound, ErrResourceNotFound, "User not found"},
		{ErrCourseNotFound, ErrResourceNotFound, "Course not found"},
		{ErrCourseStructureNotFound, ErrResourceNotFound, "Course structure not found"},
		{ErrEmailAlreadyExists, ErrResourceAlreadyExists, "User with this email already exists"},
		{ErrUserHasCourses, ErrConflict, "User still owns courses and cannot be deleted"},
		{ErrCannotDeleteSelf, ErrConflict, "You cannot delete your own account"},
		{ErrStructureNotInCourse, ErrValidationFailed, "One or more structures do not belong to this course"},
		{NewForbiddenError("owner only"), ErrPermissionDenied, "owner only"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())

			wrapped := fmt.Errorf("repository: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.message, Message(wrapped, "fallback"))
		})
	}
}

func TestIsMatchesAnyTarget(t *testing.T) {
	err := fmt.Errorf("check: %w", ErrTokenRevoked)

	assert.True(t, Is(err, ErrTokenRevoked))
	assert.True(t, Is(err, ErrTokenExpired, ErrTokenInvalid, ErrTokenRevoked))
	assert.False(t, Is(err, ErrTokenExpired, ErrTokenInvalid))
	assert.False(t, Is(nil, ErrTokenRevoked))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("plain"), "fallback"))
	assert.Equal(t, "fallback", Message(NewCustomError(ErrConflict, ""), "fallback"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestCustomErrorText(t *testing.T) {
	assert.Equal(t, "conflict", NewCustomError(ErrConflict, "").Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
	assert.Nil(t, errors.Unwrap(&CustomError{Message: "bare"}))
}
