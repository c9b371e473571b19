package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	userService services.UserService
}

func NewAuthHandler(userService services.UserService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies local credentials and returns the user profile.
// Token issuance lives in the identity provider; this endpoint backs
// credential checks for tooling and the password-based admin CLI.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "User authenticated", "user_id", user.ID)
	c.JSON(http.StatusOK, user)
}
