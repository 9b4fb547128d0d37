package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"field validation", validation.Field("title", "title is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
		{"wrapped validation", fmt.Errorf("%w: lectures must be positive", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
		{"structure not in course", apperrors.ErrStructureNotInCourse, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "One or more structures do not belong to this course"},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "User with this email already exists"},
		{"conflict", apperrors.ErrUserHasCourses, http.StatusBadRequest, dto.ErrorCodeConflict, "User still owns courses and cannot be deleted"},
		{"invalid credentials", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "x"), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
		{"forbidden", apperrors.NewForbiddenError("owner only"), http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied"},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/courses?page=2", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Empty(t, body.Stack)
		})
	}
}

func TestHandleAPIErrorIncludesFieldErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/courses", nil)

	HandleAPIError(c, validation.Errors{
		{Field: "title", Message: "title is required"},
		{Field: "image", Message: "image must be a valid URL"},
	})

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "image", body.Errors[1].Field)
}

func TestHandleAPIErrorAddsStackInDebugMode(t *testing.T) {
	gin.SetMode(gin.DebugMode)
	defer gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	HandleAPIError(c, errors.New("boom"))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Stack)
}

func TestHandleAPIErrorLogsRedactedBody(t *testing.T) {
	logs := captureLogs(t)
	r := gin.New()
	r.POST("/api/users", func(c *gin.Context) {
		var req dto.CreateUserRequest
		if !BindJSON(c, &req) {
			return
		}
		HandleAPIError(c, errors.New("insert failed"))
	})

	payload := `{"name":"Ada","email":"ada@example.com","password":"hunter22","nested":{"newPassword":"x","keep":1}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	assert.NotContains(t, logs.String(), "hunter22")
	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	var entry struct {
		Message  string                 `json:"message"`
		BodySize int                    `json:"bodySize"`
		Body     map[string]interface{} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	assert.Equal(t, "Unhandled error", entry.Message)
	assert.Equal(t, len(payload), entry.BodySize)
	assert.Equal(t, "Ada", entry.Body["name"])
	assert.Equal(t, redacted, entry.Body["password"])
	assert.Equal(t, map[string]interface{}{"newPassword": redacted, "keep": float64(1)}, entry.Body["nested"])
}

func TestRedactedBodyWithoutCachedBody(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/courses", nil)

	_, size, ok := redactedBody(c)
	assert.False(t, ok)
	assert.Zero(t, size)

	c.Set(gin.BodyBytesKey, []byte("not json"))
	_, size, ok = redactedBody(c)
	assert.False(t, ok)
	assert.Equal(t, len("not json"), size)
}
