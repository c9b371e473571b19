package repositories

import "context"

// Repository interface tổng hợp tất cả các repository interfaces
type Repository interface {
	// User domain
	User() UserRepository

	// Course domain
	Course() CourseRepository

	// Attendance domain
	Attendance() AttendanceRepository

	// Notification domain
	Notification() NotificationRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
