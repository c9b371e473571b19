package validator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// BusinessValidator handles business rule validation beyond struct tags
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateUserCreate validates user creation business rules
func (bv *BusinessValidator) ValidateUserCreate(req *UserCreateRequest) ValidationErrors {
	errors := bv.Validate(req)

	// Admin accounts are provisioned out of band, not via the API
	if req.Role == models.RoleAdmin {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "admin accounts cannot be created through this endpoint",
			Rule:    "role_restricted",
		})
	}

	return errors
}

// ValidateAttendanceCreate validates a single attendance entry
func (bv *BusinessValidator) ValidateAttendanceCreate(req *AttendanceCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateAttendanceBulk validates a bulk submission, rejecting
// duplicate students within the same payload before the database ever
// sees them.
func (bv *BusinessValidator) ValidateAttendanceBulk(req *AttendanceBulkRequest) ValidationErrors {
	errors := bv.Validate(req)

	seen := make(map[uint]bool, len(req.Entries))
	for _, entry := range req.Entries {
		if seen[entry.StudentID] {
			errors = append(errors, ValidationError{
				Field:   "entries",
				Message: "duplicate student in submission",
				Value:   entry.StudentID,
				Rule:    "unique_student",
			})
		}
		seen[entry.StudentID] = true
	}

	return errors
}

// ValidateAttendanceUpdate validates an amendment request
func (bv *BusinessValidator) ValidateAttendanceUpdate(req *AttendanceUpdateRequest) ValidationErrors {
	errors := bv.Validate(req)

	if req.Status == nil && req.Remarks == nil {
		errors = append(errors, ValidationError{
			Field:   "",
			Message: "at least one of status or remarks must be provided",
			Rule:    "non_empty_update",
		})
	}

	return errors
}

// ParseDate parses a wire-format date and normalizes it to midnight UTC
// so tuple comparisons are stable across time zones.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}
