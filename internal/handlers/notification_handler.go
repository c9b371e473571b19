package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := repositories.NotificationFilters{
		UnreadOnly: c.Query("unread") == "true",
		Limit:      parseIntQuery(c, "limit", 50),
		Offset:     parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("type"); raw != "" {
		nType := models.NotificationType(raw)
		filters.Type = &nType
	}

	resp, err := h.notificationService.List(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUnreadCount returns the caller's unread notification count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"unread": count}})
}

// MarkRead marks one notification as read. Only the recipient can.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"read": id}})
}

// MarkAllRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"marked": count}})
}
