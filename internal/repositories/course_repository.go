package repositories

import (
	"context"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"gorm.io/gorm"
)

// CourseRepository interface for course operations
type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByIDWithFaculty(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uint) error

	// List operations
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	GetByFaculty(ctx context.Context, tx *gorm.DB, facultyID uint, filters CourseFilters) ([]*models.Course, int64, error)
	ActiveCourses(ctx context.Context, tx *gorm.DB) ([]*models.Course, error)

	// Validation and checks
	ExistsByNameOrCode(ctx context.Context, tx *gorm.DB, name, code string) (bool, error)
	IsOwnedBy(ctx context.Context, tx *gorm.DB, courseID, facultyID uint) (bool, error)
}
