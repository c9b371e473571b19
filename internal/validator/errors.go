package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground errors to our error type
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	return ValidationErrors{{Field: "", Message: err.Error()}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "attendance_status":
		return "must be one of: present, absent, late"
	case "user_role":
		return "must be one of: admin, faculty, student"
	case "course_code":
		return "must be 2-20 characters of letters, digits or dashes"
	case "not_future_date":
		return "must not be in the future"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
