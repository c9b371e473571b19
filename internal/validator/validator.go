package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{2,20}$`)

// Validator wraps struct validation and business rules
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered
func New() *Validator {
	validate := validator.New()
	registerCustomRules(validate)

	return &Validator{
		validate: validate,
		business: NewBusinessValidator(validate),
	}
}

// Validate validates a struct and returns field errors
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator returns the business rule validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

func registerCustomRules(validate *validator.Validate) {
	_ = validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})

	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	_ = validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})

	_ = validate.RegisterValidation("not_future_date", func(fl validator.FieldLevel) bool {
		parsed, err := time.Parse(DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		// allow "today" anywhere on earth
		return !parsed.After(time.Now().AddDate(0, 0, 1))
	})
}
