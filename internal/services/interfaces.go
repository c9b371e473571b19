package services

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateUserRequest = validator.UserCreateRequest
type ChangePasswordRequest = validator.ChangePasswordRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type RecordAttendanceRequest = validator.AttendanceCreateRequest
type BulkAttendanceRequest = validator.AttendanceBulkRequest
type AmendAttendanceRequest = validator.AttendanceUpdateRequest

// AttendancePolicy is the explicit configuration for aggregation and
// alerting. It is passed in at construction rather than read from the
// environment so both services stay independently testable.
type AttendancePolicy struct {
	// LateWeight is the fraction of a session a "late" counts for in
	// the percentage computation.
	LateWeight float64

	// Threshold is the percentage below which alerts fire.
	Threshold float64

	// CooldownDays is the minimum number of days between repeat alerts
	// for the same (student, course) pair.
	CooldownDays int
}

// DefaultPolicy returns the institutional defaults.
func DefaultPolicy() AttendancePolicy {
	return AttendancePolicy{
		LateWeight:   0.5,
		Threshold:    75,
		CooldownDays: 15,
	}
}

// AttendanceSummary is the aggregated view for one student, optionally
// scoped to a course and date range. Percentage is nil when no sessions
// are recorded.
type AttendanceSummary struct {
	StudentID  uint                   `json:"student_id"`
	CourseID   *uint                  `json:"course_id,omitempty"`
	Total      int                    `json:"total"`
	Present    int                    `json:"present"`
	Absent     int                    `json:"absent"`
	Late       int                    `json:"late"`
	Percentage *float64               `json:"percentage"`
	Range      repositories.DateRange `json:"range,omitempty"`
}

// CourseSummary aggregates across all students of a course.
type CourseSummary struct {
	CourseID   uint     `json:"course_id"`
	Total      int      `json:"total"`
	Present    int      `json:"present"`
	Absent     int      `json:"absent"`
	Late       int      `json:"late"`
	Percentage *float64 `json:"percentage"`
	Sessions   int      `json:"sessions"` // distinct dates with records
}

// TrendGranularity selects the trend bucket size.
type TrendGranularity string

const (
	GranularityDaily  TrendGranularity = "daily"
	GranularityWeekly TrendGranularity = "weekly"
)

func (g TrendGranularity) Valid() bool {
	return g == GranularityDaily || g == GranularityWeekly
}

// TrendBucket is one point of a trend series. Buckets with no recorded
// sessions stay in the sequence with a nil percentage.
type TrendBucket struct {
	Label      string    `json:"label"`
	Start      time.Time `json:"start"`
	Total      int       `json:"total"`
	Percentage *float64  `json:"percentage"`
}

// LowAttendanceEntry is one row of the low-attendance ranking.
type LowAttendanceEntry struct {
	Student    *models.User   `json:"student"`
	Course     *models.Course `json:"course"`
	Percentage float64        `json:"percentage"`
}

// BulkRecordResult reports the outcome of a bulk attendance submission.
type BulkRecordResult struct {
	Recorded  int            `json:"recorded"`
	Conflicts []BulkConflict `json:"conflicts,omitempty"`
	Alerts    int            `json:"alerts_emitted"`
	Date      string         `json:"date"`
	CourseID  uint           `json:"course_id"`
}

// BulkConflict identifies an entry that already had a record for the
// tuple; the caller should amend instead of re-submitting.
type BulkConflict struct {
	StudentID  uint `json:"student_id"`
	ExistingID uint `json:"existing_id"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

type AttendanceListResponse struct {
	Records []*models.AttendanceRecord `json:"records"`
	Total   int64                      `json:"total"`
	Page    int                        `json:"page"`
	Size    int                        `json:"size"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
}

type AdminDashboard struct {
	Stats         *repositories.SystemStats  `json:"stats"`
	RecentRecords []*models.AttendanceRecord `json:"recent_records"`
	LowAttendance []LowAttendanceEntry       `json:"low_attendance"`
}

type FacultyDashboard struct {
	Courses       []*models.Course           `json:"courses"`
	Summaries     map[uint]*CourseSummary    `json:"summaries"`
	RecentRecords []*models.AttendanceRecord `json:"recent_records"`
	LowAttendance []LowAttendanceEntry       `json:"low_attendance"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateUserRequest, callerRole models.UserRole) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters, callerRole models.UserRole) (*UserListResponse, error)
	Deactivate(ctx context.Context, id uint, callerRole models.UserRole) error

	// Credentials
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
}

type CourseService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateCourseRequest, callerRole models.UserRole) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, callerRole models.UserRole) (*models.Course, error)
	Deactivate(ctx context.Context, id uint, callerRole models.UserRole) error

	// List operations
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	GetByFaculty(ctx context.Context, facultyID uint, filters repositories.CourseFilters) (*CourseListResponse, error)
}

type AttendanceService interface {
	// Recording
	Record(ctx context.Context, req *RecordAttendanceRequest, facultyID uint) (*models.AttendanceRecord, error)
	RecordBulk(ctx context.Context, req *BulkAttendanceRequest, facultyID uint) (*BulkRecordResult, error)

	// Amendment with audit trail
	Amend(ctx context.Context, id uint, req *AmendAttendanceRequest, callerID uint, callerRole models.UserRole) (*models.AttendanceRecord, error)

	// Read operations
	GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error)
	List(ctx context.Context, filters repositories.AttendanceFilters, callerID uint, callerRole models.UserRole) (*AttendanceListResponse, error)
	History(ctx context.Context, id uint) ([]*models.AttendanceLog, error)
}

type ReportService interface {
	// Aggregation
	Summary(ctx context.Context, studentID uint, courseID *uint, rng repositories.DateRange, callerID uint, callerRole models.UserRole) (*AttendanceSummary, error)
	CourseSummary(ctx context.Context, courseID uint, rng repositories.DateRange, callerID uint, callerRole models.UserRole) (*CourseSummary, error)
	Trend(ctx context.Context, courseID uint, studentID *uint, granularity TrendGranularity, rng repositories.DateRange, callerID uint, callerRole models.UserRole) ([]TrendBucket, error)
	LowAttendance(ctx context.Context, courseID *uint, limit int, callerID uint, callerRole models.UserRole) ([]LowAttendanceEntry, error)

	// Export
	ExportSummary(ctx context.Context, rng repositories.DateRange, callerRole models.UserRole) (*excelize.File, error)
}

type AlertService interface {
	// EvaluateCourse scans every active student of a course and emits
	// low-attendance notifications per the policy.
	EvaluateCourse(ctx context.Context, courseID uint) ([]*models.Notification, error)

	// EvaluateAll runs EvaluateCourse over all active courses; the
	// entry point for an external scheduler.
	EvaluateAll(ctx context.Context) ([]*models.Notification, error)
}

type NotificationService interface {
	List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)

	// Notify persists a notification and publishes it to the event bus.
	Notify(ctx context.Context, userID uint, courseID *uint, nType models.NotificationType, title, message string, payload interface{}) (*models.Notification, error)
}

type DashboardService interface {
	AdminOverview(ctx context.Context) (*AdminDashboard, error)
	FacultyOverview(ctx context.Context, facultyID uint) (*FacultyDashboard, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	User() UserService
	Course() CourseService
	Attendance() AttendanceService
	Report() ReportService
	Alert() AlertService
	Notification() NotificationService
	Dashboard() DashboardService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
