package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	alertService  services.AlertService
}

func NewReportHandler(reportService services.ReportService, alertService services.AlertService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		alertService:  alertService,
	}
}

// GetSummary returns the aggregated attendance summary for a student
// @Summary Attendance summary
// @Tags reports
// @Produce json
// @Param student_id path uint true "Student ID"
// @Param course_id query uint false "Course ID"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} services.AttendanceSummary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reports/students/{student_id}/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
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

	courseID := parseUintQuery(c, "course_id")
	rng := parseDateRange(c)

	summary, err := h.reportService.Summary(c.Request.Context(), studentID, courseID, rng, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetOwnSummary is the student-facing variant scoped to the caller
func (h *ReportHandler) GetOwnSummary(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), userID, parseUintQuery(c, "course_id"), parseDateRange(c), userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCourseSummary aggregates across all students of a course
func (h *ReportHandler) GetCourseSummary(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
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

	summary, err := h.reportService.CourseSummary(c.Request.Context(), courseID, parseDateRange(c), userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTrend returns the bucketed attendance trend for a course,
// optionally narrowed to one student
func (h *ReportHandler) GetTrend(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
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

	granularity := services.TrendGranularity(c.DefaultQuery("granularity", string(services.GranularityWeekly)))
	studentID := parseUintQuery(c, "student_id")

	buckets, err := h.reportService.Trend(c.Request.Context(), courseID, studentID, granularity, parseDateRange(c), userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: buckets})
}

// GetLowAttendance returns students below the alert threshold, worst first
func (h *ReportHandler) GetLowAttendance(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	entries, err := h.reportService.LowAttendance(c.Request.Context(), parseUintQuery(c, "course_id"), parseIntQuery(c, "limit", 50), userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: entries})
}

// ExportSummary streams the course summary workbook
func (h *ReportHandler) ExportSummary(c *gin.Context) {
	role, ok := h.currentRole(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting attendance summary")

	f, err := h.reportService.ExportSummary(c.Request.Context(), parseDateRange(c), role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-summary-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed to stream export", "error", err)
	}
}

// EvaluateAlerts runs the low-attendance evaluator on demand; the
// entry point for schedulers and admin tooling
func (h *ReportHandler) EvaluateAlerts(c *gin.Context) {
	h.LogRequest(c, "Evaluating low attendance alerts")

	var (
		emitted interface{}
		err     error
	)
	if courseID := parseUintQuery(c, "course_id"); courseID != nil {
		emitted, err = h.alertService.EvaluateCourse(c.Request.Context(), *courseID)
	} else {
		emitted, err = h.alertService.EvaluateAll(c.Request.Context())
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: emitted})
}
