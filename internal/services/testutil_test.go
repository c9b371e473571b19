package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// testEnv bundles everything a service test needs against an isolated
// in-memory database.
type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	mail      *mockMailer
	manager   *DefaultServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Named shared-cache database so the pool's connections all see
	// the same schema, isolated per test by the random name.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.AttendanceRecord{},
		&models.AttendanceLog{},
		&models.Notification{},
	))

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})

	v := validator.New()

	publisher := events.NewMockEventPublisher(slog.Default())
	mail := &mockMailer{}
	logger := utils.NewSlogLogger(slog.Default())

	manager := NewServiceManager(repo, v, publisher, mail, DefaultPolicy(), logger)

	return &testEnv{
		db:        db,
		repo:      repo,
		publisher: publisher,
		mail:      mail,
		manager:   manager,
	}
}

// ===== MOCK MAILER =====

type sentMail struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

type mockMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failNext error
}

func (m *mockMailer) Send(_ context.Context, toName, toEmail, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	m.sent = append(m.sent, sentMail{ToName: toName, ToEmail: toEmail, Subject: subject, Body: body})
	return nil
}

func (m *mockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// ===== SEED HELPERS =====

var serialCounter int

func nextSerial() int {
	serialCounter++
	return serialCounter
}

func seedStudent(t *testing.T, env *testEnv, name string) *models.User {
	t.Helper()
	serial := nextSerial()
	user := &models.User{
		Username:      fmt.Sprintf("student-%s-%d", name, serial),
		Email:         fmt.Sprintf("%s-%d@students.example.edu", name, serial),
		FullName:      name,
		PasswordHash:  "x",
		Role:          models.RoleStudent,
		StudentSerial: &serial,
		IsActive:      true,
	}
	require.NoError(t, env.repo.User().Create(context.Background(), nil, user))
	return user
}

func seedFaculty(t *testing.T, env *testEnv, name string) *models.User {
	t.Helper()
	serial := nextSerial()
	user := &models.User{
		Username:      fmt.Sprintf("faculty-%s-%d", name, serial),
		Email:         fmt.Sprintf("%s-%d@faculty.example.edu", name, serial),
		FullName:      name,
		PasswordHash:  "x",
		Role:          models.RoleFaculty,
		FacultySerial: &serial,
		IsActive:      true,
	}
	require.NoError(t, env.repo.User().Create(context.Background(), nil, user))
	return user
}

func seedCourse(t *testing.T, env *testEnv, facultyID uint, code string) *models.Course {
	t.Helper()
	course := &models.Course{
		Name:      "Course " + code,
		Code:      code,
		FacultyID: facultyID,
		Credits:   3,
		IsActive:  true,
	}
	require.NoError(t, env.repo.Course().Create(context.Background(), nil, course))
	return course
}

func seedAttendance(t *testing.T, env *testEnv, studentID, courseID uint, date time.Time, status models.AttendanceStatus) *models.AttendanceRecord {
	t.Helper()
	record := &models.AttendanceRecord{
		StudentID: studentID,
		CourseID:  courseID,
		Date:      date,
		Status:    status,
	}
	require.NoError(t, env.repo.Attendance().Create(context.Background(), nil, record))
	return record
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed.UTC()
}

// seedSessions records one status per consecutive day starting at from.
func seedSessions(t *testing.T, env *testEnv, studentID, courseID uint, from time.Time, statuses ...models.AttendanceStatus) {
	t.Helper()
	for i, status := range statuses {
		seedAttendance(t, env, studentID, courseID, from.AddDate(0, 0, i), status)
	}
}
