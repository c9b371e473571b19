package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the overview matching the caller's role
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	switch role {
	case models.RoleAdmin:
		dashboard, err := h.dashboardService.AdminOverview(c.Request.Context())
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	case models.RoleFaculty:
		dashboard, err := h.dashboardService.FacultyOverview(c.Request.Context(), userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	default:
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	}
}
