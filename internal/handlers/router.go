package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/config"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	courseHandler       *CourseHandler
	attendanceHandler   *AttendanceHandler
	reportHandler       *ReportHandler
	notificationHandler *NotificationHandler
	dashboardHandler    *DashboardHandler
	authMiddleware      *CasdoorAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.User(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), logger),
		attendanceHandler:   NewAttendanceHandler(serviceManager.Attendance(), logger),
		reportHandler:       NewReportHandler(serviceManager.Report(), serviceManager.Alert(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:      authMiddleware,
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	// Local credential check, no token required
	router.POST("/api/v1/auth/login", hm.authHandler.Login)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Profile routes - all authenticated users
		v1.GET("/me", hm.userHandler.GetProfile)
		v1.PUT("/me/password", hm.userHandler.ChangePassword)

		// User management - Admins only
		users := v1.Group("/users")
		users.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			users.POST("", hm.userHandler.CreateUser)
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.DELETE("/:id", hm.userHandler.DeactivateUser)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			// Modify courses - Admins only
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.DeactivateCourse)

			// View courses - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Course reports - Faculty (own courses) and Admins
			courses.GET("/:id/summary", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.reportHandler.GetCourseSummary)
			courses.GET("/:id/trend", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleStudent), hm.reportHandler.GetTrend)
		}

		// Attendance routes
		attendance := v1.Group("/attendance")
		{
			// Recording and amending - Faculty only
			attendance.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.attendanceHandler.RecordAttendance)
			attendance.POST("/bulk", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.attendanceHandler.RecordBulkAttendance)
			attendance.PATCH("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.attendanceHandler.AmendAttendance)

			// Reading - scoping happens in the service layer
			attendance.GET("", hm.attendanceHandler.ListAttendance)
			attendance.GET("/:id", hm.attendanceHandler.GetAttendance)
			attendance.GET("/:id/history", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.attendanceHandler.GetAttendanceHistory)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/me/summary", hm.reportHandler.GetOwnSummary)
			reports.GET("/students/:student_id/summary", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.reportHandler.GetSummary)
			reports.GET("/low-attendance", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.reportHandler.GetLowAttendance)
			reports.GET("/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.reportHandler.ExportSummary)
		}

		// Alert evaluation - Admins only (scheduler entry point)
		v1.POST("/alerts/evaluate", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.reportHandler.EvaluateAlerts)

		// Notification routes - all authenticated users, recipient-scoped
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.GET("/unread-count", hm.notificationHandler.GetUnreadCount)
			notifications.PUT("/:id/read", hm.notificationHandler.MarkRead)
			notifications.PUT("/read-all", hm.notificationHandler.MarkAllRead)
		}

		// Dashboard - Faculty and Admins
		v1.GET("/dashboard", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty), hm.dashboardHandler.GetDashboard)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "attendance-service",
	})
}
