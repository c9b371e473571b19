package repositories

import (
	"context"

	"gorm.io/gorm"
)

// DashboardRepository interface for dashboard analytics operations
type DashboardRepository interface {
	GetSystemStats(ctx context.Context, tx *gorm.DB) (*SystemStats, error)
	GetActiveUserCount(ctx context.Context, tx *gorm.DB, role string) (int64, error)
	GetActiveCourseCount(ctx context.Context, tx *gorm.DB) (int64, error)
}
