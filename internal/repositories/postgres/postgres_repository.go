package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user         repositories.UserRepository
	course       repositories.CourseRepository
	attendance   repositories.AttendanceRepository
	notification repositories.NotificationRepository
	dashboard    repositories.DashboardRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB, config.RedisClient)
	repo.course = NewCoursePostgreSQL(config.DB, config.RedisClient)
	repo.attendance = NewAttendancePostgreSQL(config.DB, config.RedisClient)
	repo.notification = NewNotificationPostgreSQL(config.DB)
	repo.dashboard = NewDashboardPostgreSQL(config.DB)

	return repo
}

// User returns the user repository
func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

// Course returns the course repository
func (r *PostgreSQLRepository) Course() repositories.CourseRepository {
	return r.course
}

// Attendance returns the attendance repository
func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository {
	return r.attendance
}

// Notification returns the notification repository
func (r *PostgreSQLRepository) Notification() repositories.NotificationRepository {
	return r.notification
}

// Dashboard returns the dashboard repository
func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository {
	return r.dashboard
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewPostgreSQLRepository(RepositoryConfig{
			DB:          tx,
			RedisClient: r.redisClient,
		})
		return fn(txRepo)
	})
}

// Ping checks database connectivity
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Close closes underlying connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
