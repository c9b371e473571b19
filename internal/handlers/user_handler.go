package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// CreateUser creates a new user account
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser retrieves a user by ID
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path uint true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists users with filters and pagination
func (h *UserHandler) ListUsers(c *gin.Context) {
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	filters := repositories.UserFilters{
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     parseIntQuery(c, "limit", 50),
		Offset:    parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("role"); raw != "" {
		filterRole := models.UserRole(raw)
		filters.Role = &filterRole
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true"
		filters.IsActive = &active
	}

	h.LogRequest(c, "Listing users", "query", filters.Query)

	resp, err := h.userService.List(c.Request.Context(), filters, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeactivateUser deactivates a user account. History stays intact.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deactivating user", "target_user_id", id)

	if err := h.userService.Deactivate(c.Request.Context(), id, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"deactivated": id}})
}

// GetProfile returns the authenticated user's own profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword updates the authenticated user's password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"changed": true}})
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
