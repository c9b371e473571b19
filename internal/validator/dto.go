package validator

import (
	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// UserCreateRequest represents the request structure for creating users
type UserCreateRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=80"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	FullName string          `json:"full_name" validate:"required,min=1,max=100"`
	Password string          `json:"password" validate:"required,min=8,max=128"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Code        string  `json:"code" validate:"required,course_code"`
	FacultyID   uint    `json:"faculty_id" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Credits     *int    `json:"credits" validate:"omitempty,min=1,max=10"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Credits     *int    `json:"credits" validate:"omitempty,min=1,max=10"`
	FacultyID   *uint   `json:"faculty_id"`
}

// AttendanceEntry is one student's status inside a bulk submission
type AttendanceEntry struct {
	StudentID uint                    `json:"student_id" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Remarks   *string                 `json:"remarks" validate:"omitempty,max=500"`
}

// AttendanceCreateRequest records a single attendance entry
type AttendanceCreateRequest struct {
	StudentID uint                    `json:"student_id" validate:"required"`
	CourseID  uint                    `json:"course_id" validate:"required"`
	Date      string                  `json:"date" validate:"required,not_future_date"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Remarks   *string                 `json:"remarks" validate:"omitempty,max=500"`
}

// AttendanceBulkRequest records attendance for a whole class session
type AttendanceBulkRequest struct {
	CourseID uint              `json:"course_id" validate:"required"`
	Date     string            `json:"date" validate:"required,not_future_date"`
	Entries  []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceUpdateRequest amends an existing record
type AttendanceUpdateRequest struct {
	Status  *models.AttendanceStatus `json:"status" validate:"omitempty,attendance_status"`
	Remarks *string                  `json:"remarks" validate:"omitempty,max=500"`
	Reason  *string                  `json:"reason" validate:"omitempty,max=500"`
}
