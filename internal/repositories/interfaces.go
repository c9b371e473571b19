package repositories

import (
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// DateRange bounds a query to [From, To] inclusive. Nil bounds are open.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Query    string           `json:"query"` // matches username, full name or email
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	SortBy   string           `json:"sort_by"`    // "created_at", "username", "full_name"
	SortOrder string          `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	FacultyID *uint  `json:"faculty_id"`
	IsActive  *bool  `json:"is_active"`
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "name", "code"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type AttendanceFilters struct {
	StudentID *uint                    `json:"student_id"`
	CourseID  *uint                    `json:"course_id"`
	Status    *models.AttendanceStatus `json:"status"`
	Range     DateRange                `json:"range"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "date", "created_at"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

type NotificationFilters struct {
	Type       *models.NotificationType `json:"type"`
	UnreadOnly bool                     `json:"unread_only"`
	Limit      int                      `json:"limit"`
	Offset     int                      `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type SystemStats struct {
	TotalStudents int64 `json:"total_students"`
	TotalFaculty  int64 `json:"total_faculty"`
	TotalCourses  int64 `json:"total_courses"`
	TotalRecords  int64 `json:"total_records"`
}

type StatusCounts struct {
	Total   int64 `json:"total"`
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
}
