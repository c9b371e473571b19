package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationService) List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.Notification().UnreadCount(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.Notification().UnreadCount(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) error {
	if err := s.repo.Notification().MarkRead(ctx, nil, id, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.Notification().MarkAllRead(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return count, nil
}

func (s *notificationService) Notify(ctx context.Context, userID uint, courseID *uint, nType models.NotificationType, title, message string, payload interface{}) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:   userID,
		CourseID: courseID,
		Title:    title,
		Message:  message,
		Type:     nType,
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
		}
		notification.Payload = data
	}

	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	// The row is the source of truth; a publish failure must not fail
	// the caller.
	event := &events.NotificationEvent{
		UserID:   userID,
		CourseID: courseID,
		Type:     nType,
		Title:    title,
		Message:  message,
	}
	if err := s.publisher.PublishNotification(event); err != nil {
		s.logger.Warn("failed to publish notification event",
			"notification_id", notification.ID,
			"user_id", userID,
			"error", err)
	}

	return notification, nil
}
