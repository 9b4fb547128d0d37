package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// AbortWithError writes the error envelope and stops the handler chain
func AbortWithError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}

func fieldErrors(err error) []dto.FieldErrorDetail {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dto.FieldErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.FieldErrorDetail{Field: fe.Field, Message: fe.Message})
	}
	return out
}

const redacted = "[REDACTED]"

// redactedBody returns the JSON body cached by BindJSON with credential
// fields masked. ok is false when no JSON object body was cached.
func redactedBody(c *gin.Context) (body []byte, size int, ok bool) {
	raw, exists := c.Get(gin.BodyBytesKey)
	if !exists {
		return nil, 0, false
	}
	data, isBytes := raw.([]byte)
	if !isBytes {
		return nil, 0, false
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, len(data), false
	}
	redactFields(fields)
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, len(data), false
	}
	return out, len(data), true
}

func redactFields(fields map[string]interface{}) {
	for k, v := range fields {
		key := strings.ToLower(k)
		if strings.Contains(key, "password") || strings.Contains(key, "token") || strings.Contains(key, "secret") {
			fields[k] = redacted
			continue
		}
		switch nested := v.(type) {
		case map[string]interface{}:
			redactFields(nested)
		case []interface{}:
			for _, item := range nested {
				if m, isMap := item.(map[string]interface{}); isMap {
					redactFields(m)
				}
			}
		}
	}
}

// --- Central Error Handling ---

// HandleAPIError maps service errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		resp := dto.NewErrorResponse(dto.ErrorCodeValidationFailed, apperrors.Message(err, "Validation failed")).
			WithErrors(fieldErrors(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, resp)
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		AbortWithError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, apperrors.Message(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrConflict):
		AbortWithError(c, http.StatusBadRequest, dto.ErrorCodeConflict, apperrors.Message(err, "Conflict"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat):
		AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthorized):
		AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		AbortWithError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		AbortWithError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, apperrors.Message(err, "Resource not found"))
	default:
		event := logger.Error().Err(err).
			Str("url", c.Request.URL.String()).
			Str("method", c.Request.Method).
			Interface("params", c.Params).
			Interface("query", c.Request.URL.Query())
		body, size, ok := redactedBody(c)
		if ok {
			event = event.RawJSON("body", body)
		}
		if size > 0 {
			event = event.Int("bodySize", size)
		}
		event.Msg("Unhandled error")

		resp := dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error")
		if gin.IsDebugging() {
			resp = resp.WithStack(string(debug.Stack()))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	}
}
