package repositories

import (
	"context"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uint) error

	// List and search operations
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	ActiveStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error)

	// Validation and checks
	ExistsByUsernameOrEmail(ctx context.Context, tx *gorm.DB, username, email string) (bool, error)
	HasRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) (bool, error)

	// Serial assignment for role-specific identifiers
	NextSerial(ctx context.Context, tx *gorm.DB, role models.UserRole) (int, error)
}
