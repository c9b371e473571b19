package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attendance-service/internal/authz"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	validator *validator.Validator
	alerts    AlertService
	logger    utils.Logger
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(repo repositories.Repository, v *validator.Validator, alerts AlertService, logger utils.Logger) AttendanceService {
	return &attendanceService{
		repo:      repo,
		validator: v,
		alerts:    alerts,
		logger:    logger,
	}
}

func (s *attendanceService) Record(ctx context.Context, req *RecordAttendanceRequest, facultyID uint) (*models.AttendanceRecord, error) {
	if errs := s.validator.GetBusinessValidator().ValidateAttendanceCreate(req); len(errs) > 0 {
		return nil, errs
	}

	date, err := validator.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format", ErrValidationFailed)
	}

	if err := s.requireOwnership(ctx, req.CourseID, facultyID); err != nil {
		return nil, err
	}
	if err := s.requireActiveStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      date,
		Status:    req.Status,
		Remarks:   req.Remarks,
	}

	if err := s.repo.Attendance().Create(ctx, nil, record); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrAttendanceDuplicate
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	s.evaluateAlerts(ctx, req.CourseID)
	return record, nil
}

func (s *attendanceService) RecordBulk(ctx context.Context, req *BulkAttendanceRequest, facultyID uint) (*BulkRecordResult, error) {
	if errs := s.validator.GetBusinessValidator().ValidateAttendanceBulk(req); len(errs) > 0 {
		return nil, errs
	}

	date, err := validator.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format", ErrValidationFailed)
	}

	if err := s.requireOwnership(ctx, req.CourseID, facultyID); err != nil {
		return nil, err
	}

	result := &BulkRecordResult{
		Date:     req.Date,
		CourseID: req.CourseID,
	}

	// Entries are inserted one by one so a tuple conflict on one row
	// reports that row instead of failing the whole session.
	for _, entry := range req.Entries {
		if err := s.requireActiveStudent(ctx, entry.StudentID); err != nil {
			return nil, err
		}

		record := &models.AttendanceRecord{
			StudentID: entry.StudentID,
			CourseID:  req.CourseID,
			Date:      date,
			Status:    entry.Status,
			Remarks:   entry.Remarks,
		}

		if err := s.repo.Attendance().Create(ctx, nil, record); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				existing, lookupErr := s.repo.Attendance().GetByTuple(ctx, nil, entry.StudentID, req.CourseID, date)
				conflict := BulkConflict{StudentID: entry.StudentID}
				if lookupErr == nil {
					conflict.ExistingID = existing.ID
				}
				result.Conflicts = append(result.Conflicts, conflict)
				continue
			}
			return nil, fmt.Errorf("failed to create attendance record: %w", err)
		}
		result.Recorded++
	}

	if result.Recorded > 0 {
		result.Alerts = s.evaluateAlerts(ctx, req.CourseID)
	}

	s.logger.Info("bulk attendance recorded",
		"course_id", req.CourseID,
		"date", req.Date,
		"recorded", result.Recorded,
		"conflicts", len(result.Conflicts))

	return result, nil
}

func (s *attendanceService) Amend(ctx context.Context, id uint, req *AmendAttendanceRequest, callerID uint, callerRole models.UserRole) (*models.AttendanceRecord, error) {
	if !authz.Can(callerRole, authz.OpAmendAttendance) {
		return nil, NewPermissionError(callerID, "attendance", "amend", "role cannot amend attendance")
	}

	if errs := s.validator.GetBusinessValidator().ValidateAttendanceUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	record, err := s.repo.Attendance().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if callerRole == models.RoleFaculty {
		if err := s.requireOwnership(ctx, record.CourseID, callerID); err != nil {
			return nil, err
		}
	}

	oldStatus := record.Status
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.Remarks != nil {
		record.Remarks = req.Remarks
	}

	// Update and audit commit or roll back together.
	err = s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
		if err := r.Attendance().Update(ctx, nil, record); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		log := &models.AttendanceLog{
			AttendanceID: record.ID,
			ChangedBy:    callerID,
			OldStatus:    oldStatus,
			NewStatus:    record.Status,
			Reason:       req.Reason,
		}
		if err := r.Attendance().CreateLog(ctx, nil, log); err != nil {
			return fmt.Errorf("failed to write attendance log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != oldStatus {
		s.evaluateAlerts(ctx, record.CourseID)
	}
	return record, nil
}

func (s *attendanceService) GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	record, err := s.repo.Attendance().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return record, nil
}

func (s *attendanceService) List(ctx context.Context, filters repositories.AttendanceFilters, callerID uint, callerRole models.UserRole) (*AttendanceListResponse, error) {
	switch callerRole {
	case models.RoleStudent:
		// Students see only their own records regardless of the filter
		filters.StudentID = &callerID
	case models.RoleFaculty:
		if filters.CourseID == nil {
			return nil, NewPermissionError(callerID, "attendance", "list", "faculty must filter by one of their courses")
		}
		if err := s.requireOwnership(ctx, *filters.CourseID, callerID); err != nil {
			return nil, err
		}
	case models.RoleAdmin:
		// unrestricted
	default:
		return nil, NewPermissionError(callerID, "attendance", "list", "unknown role")
	}

	records, total, err := s.repo.Attendance().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return &AttendanceListResponse{
		Records: records,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    filters.Limit,
	}, nil
}

func (s *attendanceService) History(ctx context.Context, id uint) ([]*models.AttendanceLog, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.repo.Attendance().LogsForRecord(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	return logs, nil
}

// evaluateAlerts runs the evaluator after a write. Best-effort: a
// failed evaluation never rolls back recorded attendance.
func (s *attendanceService) evaluateAlerts(ctx context.Context, courseID uint) int {
	notifications, err := s.alerts.EvaluateCourse(ctx, courseID)
	if err != nil {
		s.logger.Warn("alert evaluation failed after attendance write",
			"course_id", courseID,
			"error", err)
		return 0
	}
	return len(notifications)
}

func (s *attendanceService) requireOwnership(ctx context.Context, courseID, facultyID uint) error {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	if !course.IsActive {
		return NewBusinessRuleError("course_inactive", "attendance cannot be recorded for an inactive course")
	}
	if course.FacultyID != facultyID {
		return NewPermissionError(facultyID, "course", "record attendance", "faculty may only record attendance for their own courses")
	}
	return nil
}

func (s *attendanceService) requireActiveStudent(ctx context.Context, studentID uint) error {
	student, err := s.repo.User().GetByID(ctx, nil, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student.Role != models.RoleStudent {
		return ErrStudentNotFound
	}
	if !student.IsActive {
		return NewBusinessRuleError("student_inactive", "attendance cannot be recorded for a deactivated student")
	}
	return nil
}

func pageFromOffset(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
