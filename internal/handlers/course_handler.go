package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
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

	course, err := h.courseService.Create(c.Request.Context(), &req, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course with its faculty
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse updates course fields
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
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

	h.LogRequest(c, "Updating course", "course_id", id)

	course, err := h.courseService.Update(c.Request.Context(), id, &req, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeactivateCourse retires a course without touching its history
func (h *CourseHandler) DeactivateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	if err := h.courseService.Deactivate(c.Request.Context(), id, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"deactivated": id}})
}

// ListCourses lists courses; faculty get their own courses by default
func (h *CourseHandler) ListCourses(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	filters := repositories.CourseFilters{
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     parseIntQuery(c, "limit", 50),
		Offset:    parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true"
		filters.IsActive = &active
	}

	var (
		resp *services.CourseListResponse
		err  error
	)
	if role == models.RoleFaculty && c.Query("all") != "true" {
		resp, err = h.courseService.GetByFaculty(c.Request.Context(), userID, filters)
	} else {
		resp, err = h.courseService.List(c.Request.Context(), filters)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
