package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeBadRequest       ErrorCode = "VAL_002"

	// Rate limiting
	ErrorCodeTooManyRequests ErrorCode = "RATE_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// FieldErrorDetail describes a single invalid request field
type FieldErrorDetail struct {
	Field   string `json:"field" example:"title"`
	Message string `json:"message" example:"title must be at least 3 characters"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool               `json:"success" example:"false"`
	Message   string             `json:"message" example:"Validation failed"`
	Code      ErrorCode          `json:"code" example:"VAL_001"`
	Errors    []FieldErrorDetail `json:"errors,omitempty"`
	Stack     string             `json:"stack,omitempty"`
	Timestamp time.Time          `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithErrors attaches field level errors
func (e *ErrorResponse) WithErrors(errs []FieldErrorDetail) *ErrorResponse {
	e.Errors = errs
	return e
}

// WithStack attaches a stack trace (development only)
func (e *ErrorResponse) WithStack(stack string) *ErrorResponse {
	e.Stack = stack
	return e
}
