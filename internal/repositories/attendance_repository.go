package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"gorm.io/gorm"
)

// AttendanceRepository interface for attendance record operations
type AttendanceRepository interface {
	// Create returns ErrDuplicateKey when a row for the same
	// (student, course, date) tuple already exists.
	Create(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AttendanceRecord, error)
	GetByTuple(ctx context.Context, tx *gorm.DB, studentID, courseID uint, date time.Time) (*models.AttendanceRecord, error)
	Update(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error

	// List operations
	List(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.AttendanceRecord, int64, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.AttendanceRecord, error)

	// ForAggregation returns every matching row ordered by date
	// ascending, without pagination; input for the aggregator.
	ForAggregation(ctx context.Context, tx *gorm.DB, studentID, courseID *uint, rng DateRange) ([]*models.AttendanceRecord, error)

	// CountByStatus aggregates in the database for summary queries.
	CountByStatus(ctx context.Context, tx *gorm.DB, studentID, courseID *uint, rng DateRange) (*StatusCounts, error)

	// Audit log
	CreateLog(ctx context.Context, tx *gorm.DB, log *models.AttendanceLog) error
	LogsForRecord(ctx context.Context, tx *gorm.DB, attendanceID uint) ([]*models.AttendanceLog, error)
}
