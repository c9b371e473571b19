package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	db := n.getDB(tx)
	return repositories.TranslateError(db.WithContext(ctx).Create(notification).Error)
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Notification, error) {
	db := n.getDB(tx)
	var notification models.Notification
	if err := db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	db := n.getDB(tx)
	var notifications []*models.Notification
	var total int64

	query := db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset)

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (n *NotificationPostgreSQL) UnreadCount(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	db := n.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error {
	db := n.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	db := n.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (n *NotificationPostgreSQL) LatestOfType(ctx context.Context, tx *gorm.DB, userID, courseID uint, nType models.NotificationType) (*models.Notification, error) {
	db := n.getDB(tx)
	var notification models.Notification
	err := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND type = ?", userID, courseID, nType).
		Order("created_at desc").
		First(&notification).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &notification, nil
}
