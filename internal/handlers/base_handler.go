package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps data payloads
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request-scoped logger when available
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	if logger := utils.FromContext(c); logger != nil {
		logger.Info(msg, args...)
		return
	}
	h.logger.Info(msg, args...)
}

// parseIDParam parses a numeric path parameter, writing the error
// response itself. A zero return means the response is already sent.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// currentUserID returns the authenticated user's ID from context.
func (h *BaseHandler) currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	return id, true
}

func (h *BaseHandler) currentRole(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get("user_role")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	role, ok := value.(models.UserRole)
	if !ok || !role.Valid() {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return role, true
}

// handleServiceError maps service errors onto HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule": businessRuleError.Rule,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrAttendanceNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrAttendanceDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Attendance already recorded for this student, course and date",
		})
	case errors.Is(err, services.ErrUsernameOrEmailTaken),
		errors.Is(err, services.ErrCourseNameOrCodeTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid username or password",
		})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Account is deactivated",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized access",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	default:
		h.logger.Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
