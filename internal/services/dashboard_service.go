package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

const (
	recentRecordsLimit = 10
	lowAttendanceLimit = 10
)

type dashboardService struct {
	repo    repositories.Repository
	reports ReportService
	logger  utils.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(repo repositories.Repository, reports ReportService, logger utils.Logger) DashboardService {
	return &dashboardService{
		repo:    repo,
		reports: reports,
		logger:  logger,
	}
}

func (s *dashboardService) AdminOverview(ctx context.Context) (*AdminDashboard, error) {
	stats, err := s.repo.Dashboard().GetSystemStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get system stats: %w", err)
	}

	recent, err := s.repo.Attendance().Recent(ctx, nil, recentRecordsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent records: %w", err)
	}

	low, err := s.reports.LowAttendance(ctx, nil, lowAttendanceLimit, 0, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to get low attendance ranking: %w", err)
	}

	return &AdminDashboard{
		Stats:         stats,
		RecentRecords: recent,
		LowAttendance: low,
	}, nil
}

func (s *dashboardService) FacultyOverview(ctx context.Context, facultyID uint) (*FacultyDashboard, error) {
	courses, _, err := s.repo.Course().GetByFaculty(ctx, nil, facultyID, repositories.CourseFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty courses: %w", err)
	}

	summaries := make(map[uint]*CourseSummary, len(courses))
	for _, course := range courses {
		summary, err := s.reports.CourseSummary(ctx, course.ID, repositories.DateRange{}, facultyID, models.RoleFaculty)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize course %d: %w", course.ID, err)
		}
		summaries[course.ID] = summary
	}

	low, err := s.reports.LowAttendance(ctx, nil, lowAttendanceLimit, facultyID, models.RoleFaculty)
	if err != nil {
		return nil, fmt.Errorf("failed to get low attendance ranking: %w", err)
	}

	recent, err := s.repo.Attendance().Recent(ctx, nil, recentRecordsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent records: %w", err)
	}
	// Trim to this faculty's courses
	courseIDs := make(map[uint]bool, len(courses))
	for _, c := range courses {
		courseIDs[c.ID] = true
	}
	var ownRecent []*models.AttendanceRecord
	for _, r := range recent {
		if courseIDs[r.CourseID] {
			ownRecent = append(ownRecent, r)
		}
	}

	return &FacultyDashboard{
		Courses:       courses,
		Summaries:     summaries,
		RecentRecords: ownRecent,
		LowAttendance: low,
	}, nil
}
