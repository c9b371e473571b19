package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
	}
}

// RecordAttendance records a single attendance entry
// @Summary Record attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Param attendance body services.RecordAttendanceRequest true "Attendance data"
// @Success 201 {object} models.AttendanceRecord
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attendance [post]
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	var req services.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceService.Record(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// RecordBulkAttendance records attendance for a whole class session
// @Summary Record bulk attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Param attendance body services.BulkAttendanceRequest true "Session attendance"
// @Success 200 {object} services.BulkRecordResult
// @Failure 400 {object} ErrorResponse
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) RecordBulkAttendance(c *gin.Context) {
	var req services.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Recording bulk attendance", "course_id", req.CourseID, "entries", len(req.Entries))

	result, err := h.attendanceService.RecordBulk(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Partial success is still a success; conflicts ride along in the body
	c.JSON(http.StatusOK, result)
}

// AmendAttendance amends an existing record and writes an audit entry
func (h *AttendanceHandler) AmendAttendance(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AmendAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Amending attendance record", "attendance_id", id)

	record, err := h.attendanceService.Amend(c.Request.Context(), id, &req, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetAttendance retrieves a single record
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	record, err := h.attendanceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListAttendance lists records scoped by the caller's role
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	filters := repositories.AttendanceFilters{
		Range:     parseDateRange(c),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     parseIntQuery(c, "limit", 50),
		Offset:    parseIntQuery(c, "offset", 0),
	}
	if id := parseUintQuery(c, "student_id"); id != nil {
		filters.StudentID = id
	}
	if id := parseUintQuery(c, "course_id"); id != nil {
		filters.CourseID = id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(raw)
		filters.Status = &status
	}

	resp, err := h.attendanceService.List(c.Request.Context(), filters, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAttendanceHistory returns the amendment audit trail for a record
func (h *AttendanceHandler) GetAttendanceHistory(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	logs, err := h.attendanceService.History(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: logs})
}

// parseDateRange reads from/to query parameters in wire date format.
// Unparseable values are treated as absent.
func parseDateRange(c *gin.Context) repositories.DateRange {
	var rng repositories.DateRange
	if raw := c.Query("from"); raw != "" {
		if parsed, err := time.Parse(validator.DateLayout, raw); err == nil {
			parsed = parsed.UTC()
			rng.From = &parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		if parsed, err := time.Parse(validator.DateLayout, raw); err == nil {
			parsed = parsed.UTC()
			rng.To = &parsed
		}
	}
	return rng
}

func parseUintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value := parseIntQuery(c, name, 0)
	if value <= 0 {
		return nil
	}
	id := uint(value)
	return &id
}
