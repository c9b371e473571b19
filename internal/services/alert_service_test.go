package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// lowAttendanceFixture seeds a course with one student at 50%.
func lowAttendanceFixture(t *testing.T, env *testEnv) (*models.User, *models.Course) {
	t.Helper()
	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "ALERT-101")
	student := seedStudent(t, env, "slacker")
	seedSessions(t, env, student.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusPresent, models.StatusAbsent, models.StatusAbsent)
	return student, course
}

func TestAlertEmittedBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student, course := lowAttendanceFixture(t, env)

	emitted, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, emitted, 1)

	notification := emitted[0]
	assert.Equal(t, student.ID, notification.UserID)
	require.NotNil(t, notification.CourseID)
	assert.Equal(t, course.ID, *notification.CourseID)
	assert.Equal(t, models.NotificationLowAttendance, notification.Type)
	assert.Contains(t, notification.Message, course.Name)

	// Email went out to the student
	sent := env.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, student.Email, sent[0].ToEmail)

	// Event published for downstream consumers
	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, models.NotificationLowAttendance, published[0].Type)
}

func TestAlertSkipsHealthyStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "ALERT-102")
	student := seedStudent(t, env, "diligent")
	seedSessions(t, env, student.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusPresent, models.StatusPresent, models.StatusLate)

	emitted, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, emitted)
	assert.Empty(t, env.mail.Sent())
}

func TestAlertCooldownSuppressesRepeat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, course := lowAttendanceFixture(t, env)

	first, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Still below threshold, but inside the cooldown window
	second, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, env.mail.Sent(), 1)
}

func TestAlertFiresAgainAfterCooldownExpires(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, course := lowAttendanceFixture(t, env)

	first, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Age the notification past the 15 day cooldown
	aged := time.Now().AddDate(0, 0, -16)
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("id = ?", first[0].ID).
		Update("created_at", aged).Error)

	second, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestAlertPersistsWhenEmailFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student, course := lowAttendanceFixture(t, env)
	env.mail.failNext = errors.New("smtp unreachable")

	emitted, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, emitted, 1)

	// The notification row survived the mail outage
	unread, err := env.manager.Notification().UnreadCount(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	assert.Empty(t, env.mail.Sent())
}

func TestAlertIgnoresDeactivatedStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student, course := lowAttendanceFixture(t, env)
	require.NoError(t, env.repo.User().Deactivate(ctx, nil, student.ID))

	emitted, err := env.manager.Alert().EvaluateCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, emitted)
}

func TestEvaluateAllCoversEveryActiveCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	courseA := seedCourse(t, env, faculty.ID, "ALERT-103")
	courseB := seedCourse(t, env, faculty.ID, "ALERT-104")

	student := seedStudent(t, env, "struggling")
	seedSessions(t, env, student.ID, courseA.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusAbsent)
	seedSessions(t, env, student.ID, courseB.ID, day("2026-03-02"),
		models.StatusAbsent, models.StatusAbsent)

	emitted, err := env.manager.Alert().EvaluateAll(ctx)
	require.NoError(t, err)
	assert.Len(t, emitted, 2)
}

func TestEvaluateUnknownCourse(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.Alert().EvaluateCourse(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
