package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes in one place.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrAttendanceDuplicate   = errors.New("attendance already recorded for this student, course and date")
	ErrUsernameOrEmailTaken  = errors.New("username or email already in use")
	ErrCourseNameOrCodeTaken = errors.New("course name or code already in use")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is deactivated")

	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// PermissionError carries the context of a denied operation.
type PermissionError struct {
	UserID   uint
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrForbidden }

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}

// BusinessRuleError reports a domain rule violation that is not a plain
// field validation failure.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}
