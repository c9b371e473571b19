package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/attendance-service/internal/authz"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type reportService struct {
	repo   repositories.Repository
	policy AttendancePolicy
	logger utils.Logger
}

// NewReportService creates a new report service instance
func NewReportService(repo repositories.Repository, policy AttendancePolicy, logger utils.Logger) ReportService {
	return &reportService{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

func (s *reportService) Summary(ctx context.Context, studentID uint, courseID *uint, rng repositories.DateRange, callerID uint, callerRole models.UserRole) (*AttendanceSummary, error) {
	if err := s.authorizeStudentScope(ctx, studentID, courseID, callerID, callerRole); err != nil {
		return nil, err
	}

	student, err := s.repo.User().GetByID(ctx, nil, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}

	if courseID != nil {
		if _, err := s.repo.Course().GetByID(ctx, nil, *courseID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
	}

	records, err := s.repo.Attendance().ForAggregation(ctx, nil, &studentID, courseID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}

	return buildSummary(studentID, courseID, rng, records, s.policy.LateWeight), nil
}

func (s *reportService) CourseSummary(ctx context.Context, courseID uint, rng repositories.DateRange, callerID uint, callerRole models.UserRole) (*CourseSummary, error) {
	if err := s.authorizeCourseScope(ctx, courseID, callerID, callerRole); err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance().ForAggregation(ctx, nil, nil, &courseID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}

	counts := countByStatus(records)
	sessions := make(map[time.Time]bool)
	for _, r := range records {
		sessions[r.Date] = true
	}

	return &CourseSummary{
		CourseID:   courseID,
		Total:      counts.total,
		Present:    counts.present,
		Absent:     counts.absent,
		Late:       counts.late,
		Percentage: percentage(counts, s.policy.LateWeight),
		Sessions:   len(sessions),
	}, nil
}

func (s *reportService) Trend(ctx context.Context, courseID uint, studentID *uint, granularity TrendGranularity, rng repositories.DateRange, callerID uint, callerRole models.UserRole) ([]TrendBucket, error) {
	if !granularity.Valid() {
		granularity = GranularityWeekly
	}

	if studentID != nil && callerRole == models.RoleStudent {
		if err := s.authorizeStudentScope(ctx, *studentID, &courseID, callerID, callerRole); err != nil {
			return nil, err
		}
	} else {
		if err := s.authorizeCourseScope(ctx, courseID, callerID, callerRole); err != nil {
			return nil, err
		}
	}

	records, err := s.repo.Attendance().ForAggregation(ctx, nil, studentID, &courseID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}

	return buildTrend(records, granularity, rng, s.policy.LateWeight), nil
}

func (s *reportService) LowAttendance(ctx context.Context, courseID *uint, limit int, callerID uint, callerRole models.UserRole) ([]LowAttendanceEntry, error) {
	if !authz.Can(callerRole, authz.OpViewCourseReports) {
		return nil, NewPermissionError(callerID, "reports", "view", "role cannot view course reports")
	}

	var courses []*models.Course
	if courseID != nil {
		if err := s.authorizeCourseScope(ctx, *courseID, callerID, callerRole); err != nil {
			return nil, err
		}
		course, err := s.repo.Course().GetByID(ctx, nil, *courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		courses = []*models.Course{course}
	} else {
		all, err := s.repo.Course().ActiveCourses(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		for _, c := range all {
			// Faculty without an explicit course see only their own
			if callerRole == models.RoleFaculty && c.FacultyID != callerID {
				continue
			}
			courses = append(courses, c)
		}
	}

	students, err := s.repo.User().ActiveStudents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	studentsByID := make(map[uint]*models.User, len(students))
	for _, st := range students {
		studentsByID[st.ID] = st
	}

	var entries []LowAttendanceEntry
	for _, course := range courses {
		records, err := s.repo.Attendance().ForAggregation(ctx, nil, nil, &course.ID, repositories.DateRange{})
		if err != nil {
			return nil, fmt.Errorf("failed to load attendance for course %d: %w", course.ID, err)
		}

		byStudent := make(map[uint][]*models.AttendanceRecord)
		for _, r := range records {
			byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
		}

		for studentID, studentRecords := range byStudent {
			student, ok := studentsByID[studentID]
			if !ok {
				continue // deactivated student
			}
			pct := percentage(countByStatus(studentRecords), s.policy.LateWeight)
			if pct == nil || *pct >= s.policy.Threshold {
				continue
			}
			entries = append(entries, LowAttendanceEntry{
				Student:    student,
				Course:     course,
				Percentage: *pct,
			})
		}
	}

	// Worst first, stable across equal percentages
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Percentage < entries[j].Percentage
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *reportService) ExportSummary(ctx context.Context, rng repositories.DateRange, callerRole models.UserRole) (*excelize.File, error) {
	if !authz.Can(callerRole, authz.OpExportReports) {
		return nil, ErrForbidden
	}

	courses, err := s.repo.Course().ActiveCourses(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Attendance Summary"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Course Code", "Course Name", "Sessions", "Total", "Present", "Absent", "Late", "Percentage"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, course := range courses {
		records, err := s.repo.Attendance().ForAggregation(ctx, nil, nil, &course.ID, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to load attendance for course %d: %w", course.ID, err)
		}
		counts := countByStatus(records)
		sessions := make(map[time.Time]bool)
		for _, r := range records {
			sessions[r.Date] = true
		}

		values := []interface{}{course.Code, course.Name, len(sessions), counts.total, counts.present, counts.absent, counts.late}
		if pct := percentage(counts, s.policy.LateWeight); pct != nil {
			values = append(values, fmt.Sprintf("%.1f%%", *pct))
		} else {
			values = append(values, "N/A")
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	return f, nil
}

// authorizeStudentScope allows students to read only their own data;
// faculty must own the course in scope; admins pass.
func (s *reportService) authorizeStudentScope(ctx context.Context, studentID uint, courseID *uint, callerID uint, callerRole models.UserRole) error {
	switch callerRole {
	case models.RoleStudent:
		if !authz.Can(callerRole, authz.OpViewOwnSummary) || callerID != studentID {
			return NewPermissionError(callerID, "summary", "view", "students may only view their own summary")
		}
		return nil
	case models.RoleFaculty:
		if courseID == nil {
			return NewPermissionError(callerID, "summary", "view", "faculty must scope summaries to one of their courses")
		}
		return s.requireOwnership(ctx, *courseID, callerID)
	case models.RoleAdmin:
		return nil
	}
	return NewPermissionError(callerID, "summary", "view", "unknown role")
}

func (s *reportService) authorizeCourseScope(ctx context.Context, courseID uint, callerID uint, callerRole models.UserRole) error {
	if !authz.Can(callerRole, authz.OpViewCourseReports) {
		return NewPermissionError(callerID, "course report", "view", "role cannot view course reports")
	}
	if callerRole == models.RoleFaculty {
		return s.requireOwnership(ctx, courseID, callerID)
	}
	return nil
}

func (s *reportService) requireOwnership(ctx context.Context, courseID, facultyID uint) error {
	owned, err := s.repo.Course().IsOwnedBy(ctx, nil, courseID, facultyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to check course ownership: %w", err)
	}
	if !owned {
		return NewPermissionError(facultyID, "course", "view", "faculty may only access their own courses")
	}
	return nil
}
