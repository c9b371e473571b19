package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/mailer"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type alertService struct {
	repo          repositories.Repository
	notifications NotificationService
	mail          mailer.Mailer
	policy        AttendancePolicy
	logger        utils.Logger
}

// NewAlertService creates a new alert service instance
func NewAlertService(repo repositories.Repository, notifications NotificationService, mail mailer.Mailer, policy AttendancePolicy, logger utils.Logger) AlertService {
	return &alertService{
		repo:          repo,
		notifications: notifications,
		mail:          mail,
		policy:        policy,
		logger:        logger,
	}
}

func (s *alertService) EvaluateCourse(ctx context.Context, courseID uint) ([]*models.Notification, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	records, err := s.repo.Attendance().ForAggregation(ctx, nil, nil, &courseID, repositories.DateRange{})
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}

	byStudent := make(map[uint][]*models.AttendanceRecord)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	students, err := s.repo.User().ActiveStudents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	studentsByID := make(map[uint]*models.User, len(students))
	for _, st := range students {
		studentsByID[st.ID] = st
	}

	cooldown := time.Duration(s.policy.CooldownDays) * 24 * time.Hour

	var emitted []*models.Notification
	for studentID, studentRecords := range byStudent {
		student, ok := studentsByID[studentID]
		if !ok {
			continue // deactivated students do not receive alerts
		}

		pct := percentage(countByStatus(studentRecords), s.policy.LateWeight)
		if pct == nil || *pct >= s.policy.Threshold {
			// Undefined percentages never fire: no sessions means
			// nothing to alert on.
			continue
		}

		latest, err := s.repo.Notification().LatestOfType(ctx, nil, studentID, courseID, models.NotificationLowAttendance)
		if err != nil && !repositories.IsNotFoundError(err) {
			return emitted, fmt.Errorf("failed to check alert cooldown: %w", err)
		}
		if err == nil && time.Since(latest.CreatedAt) < cooldown {
			continue // still inside the cooldown window
		}

		notification, err := s.emitAlert(ctx, student, course, *pct)
		if err != nil {
			return emitted, err
		}
		emitted = append(emitted, notification)
	}

	if len(emitted) > 0 {
		s.logger.Info("low attendance alerts emitted",
			"course_id", courseID,
			"count", len(emitted))
	}
	return emitted, nil
}

func (s *alertService) EvaluateAll(ctx context.Context) ([]*models.Notification, error) {
	courses, err := s.repo.Course().ActiveCourses(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	var emitted []*models.Notification
	for _, course := range courses {
		notifications, err := s.EvaluateCourse(ctx, course.ID)
		if err != nil {
			return emitted, err
		}
		emitted = append(emitted, notifications...)
	}
	return emitted, nil
}

// emitAlert persists the notification first, then attempts email.
// Email failure is logged and swallowed so the in-app notification is
// never lost to a mail outage.
func (s *alertService) emitAlert(ctx context.Context, student *models.User, course *models.Course, pct float64) (*models.Notification, error) {
	title := "Low Attendance Alert"
	message := fmt.Sprintf("Your attendance in %s (%s) has dropped to %.1f%%, below the required %.0f%%. Please attend upcoming sessions.",
		course.Name, course.Code, pct, s.policy.Threshold)

	payload := map[string]interface{}{
		"percentage": pct,
		"threshold":  s.policy.Threshold,
		"course_id":  course.ID,
	}

	notification, err := s.notifications.Notify(ctx, student.ID, &course.ID, models.NotificationLowAttendance, title, message, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert notification: %w", err)
	}

	if s.mail != nil && student.Email != "" {
		body := fmt.Sprintf("<p>Dear %s,</p><p>%s</p>", student.FullName, message)
		if err := s.mail.Send(ctx, student.FullName, student.Email, title, body); err != nil {
			s.logger.Warn("alert email delivery failed",
				"student_id", student.ID,
				"course_id", course.ID,
				"error", err)
		}
	}

	return notification, nil
}
