package repositories

import (
	"context"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository interface for notification operations.
// Notifications are append-only except for the read flag.
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Notification, error)

	// List operations, newest first
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters NotificationFilters) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)

	// Read marking, scoped to the recipient
	MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)

	// LatestOfType returns the most recent notification of the given
	// type for a (user, course) pair, or ErrNotFound. Used by the
	// alert evaluator for its cooldown check.
	LatestOfType(ctx context.Context, tx *gorm.DB, userID, courseID uint, nType models.NotificationType) (*models.Notification, error)
}
