package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// Length limits shared by request DTOs and their error messages
const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 1000
	InstructorMinLength  = 2
	InstructorMaxLength  = 50
	NameMinLength        = 2
	NameMaxLength        = 50
	PasswordMinLength    = 6
	// PasswordMaxBytes is the bcrypt input limit
	PasswordMaxBytes = 72
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// maxbytes limits the UTF-8 encoded length, max counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	return v
}

// FieldError describes a single invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects field errors. It unwraps to apperrors.ErrValidationFailed.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed
func (e Errors) Unwrap() error {
	return apperrors.ErrValidationFailed
}

// Struct validates obj against its `validate` tags and returns Errors on failure.
func Struct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	out := make(Errors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Message: formatValidationError(fe),
		})
	}
	return out
}

// Field returns Errors carrying a single field message.
func Field(field, message string) error {
	return Errors{{Field: field, Message: message}}
}

// fieldPath drops the top level struct name from the namespace
// ("CreateCourseRequest.title" -> "title", "Req.structures[0].id" -> "structures[0].id").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if isNumeric(e.Kind()) {
			return field + " must be at least " + e.Param()
		}
		if e.Kind() == reflect.Slice {
			return field + " must contain at least " + e.Param() + " item(s)"
		}
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		if isNumeric(e.Kind()) {
			return field + " must be at most " + e.Param()
		}
		return field + " must be at most " + e.Param() + " characters"
	case "maxbytes":
		return field + " must be at most " + e.Param() + " bytes"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
