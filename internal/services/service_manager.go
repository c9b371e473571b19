package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/mailer"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// DefaultServiceManager wires every service over a shared repository,
// validator, event publisher and mailer.
type DefaultServiceManager struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger

	user         UserService
	course       CourseService
	attendance   AttendanceService
	report       ReportService
	alert        AlertService
	notification NotificationService
	dashboard    DashboardService
}

// NewServiceManager creates the full service graph.
func NewServiceManager(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, mail mailer.Mailer, policy AttendancePolicy, logger utils.Logger) *DefaultServiceManager {
	notification := NewNotificationService(repo, publisher, logger)
	report := NewReportService(repo, policy, logger)
	alert := NewAlertService(repo, notification, mail, policy, logger)

	return &DefaultServiceManager{
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		user:         NewUserService(repo, v, logger),
		course:       NewCourseService(repo, v, logger),
		attendance:   NewAttendanceService(repo, v, alert, logger),
		report:       report,
		alert:        alert,
		notification: notification,
		dashboard:    NewDashboardService(repo, report, logger),
	}
}

func (m *DefaultServiceManager) User() UserService                 { return m.user }
func (m *DefaultServiceManager) Course() CourseService             { return m.course }
func (m *DefaultServiceManager) Attendance() AttendanceService     { return m.attendance }
func (m *DefaultServiceManager) Report() ReportService             { return m.report }
func (m *DefaultServiceManager) Alert() AlertService               { return m.alert }
func (m *DefaultServiceManager) Notification() NotificationService { return m.notification }
func (m *DefaultServiceManager) Dashboard() DashboardService       { return m.dashboard }

func (m *DefaultServiceManager) Initialize(ctx context.Context) error {
	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository not reachable: %w", err)
	}
	m.logger.Info("service manager initialized")
	return nil
}

func (m *DefaultServiceManager) HealthCheck(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

func (m *DefaultServiceManager) Shutdown(ctx context.Context) error {
	if err := m.publisher.Close(); err != nil {
		m.logger.Warn("event publisher close failed", "error", err)
	}
	return m.repo.Close()
}
