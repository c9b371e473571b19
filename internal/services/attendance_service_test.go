package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func TestRecordAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-101")
	student := seedStudent(t, env, "sam")

	record, err := env.manager.Attendance().Record(ctx, &RecordAttendanceRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
		Date:      "2026-03-02",
		Status:    models.StatusPresent,
	}, faculty.ID)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, models.StatusPresent, record.Status)
}

func TestRecordDuplicateTupleKeepsOneRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-102")
	student := seedStudent(t, env, "sam")

	req := &RecordAttendanceRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
		Date:      "2026-03-02",
		Status:    models.StatusPresent,
	}

	first, err := env.manager.Attendance().Record(ctx, req, faculty.ID)
	require.NoError(t, err)

	// Same tuple again, even with a different status, must not
	// overwrite the existing row
	req.Status = models.StatusAbsent
	_, err = env.manager.Attendance().Record(ctx, req, faculty.ID)
	assert.ErrorIs(t, err, ErrAttendanceDuplicate)

	var count int64
	require.NoError(t, env.db.Model(&models.AttendanceRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	kept, err := env.manager.Attendance().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, kept.Status)
}

func TestRecordRejectsFutureDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-103")
	student := seedStudent(t, env, "sam")

	_, err := env.manager.Attendance().Record(ctx, &RecordAttendanceRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
		Date:      "2030-01-01",
		Status:    models.StatusPresent,
	}, faculty.ID)

	var valErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &valErrs)
}

func TestRecordRequiresCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedFaculty(t, env, "owner")
	other := seedFaculty(t, env, "other")
	course := seedCourse(t, env, owner.ID, "REC-104")
	student := seedStudent(t, env, "sam")

	_, err := env.manager.Attendance().Record(ctx, &RecordAttendanceRequest{
		StudentID: student.ID,
		CourseID:  course.ID,
		Date:      "2026-03-02",
		Status:    models.StatusPresent,
	}, other.ID)

	var permErr *PermissionError
	assert.ErrorAs(t, err, &permErr)
}

func TestRecordBulkReportsConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-105")
	alice := seedStudent(t, env, "alice")
	bob := seedStudent(t, env, "bob")

	existing := seedAttendance(t, env, alice.ID, course.ID, day("2026-03-02"), models.StatusPresent)

	result, err := env.manager.Attendance().RecordBulk(ctx, &BulkAttendanceRequest{
		CourseID: course.ID,
		Date:     "2026-03-02",
		Entries: []validator.AttendanceEntry{
			{StudentID: alice.ID, Status: models.StatusAbsent},
			{StudentID: bob.ID, Status: models.StatusPresent},
		},
	}, faculty.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Recorded)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, alice.ID, result.Conflicts[0].StudentID)
	assert.Equal(t, existing.ID, result.Conflicts[0].ExistingID)
}

func TestRecordBulkRejectsDuplicateStudentsInPayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-106")
	student := seedStudent(t, env, "sam")

	_, err := env.manager.Attendance().RecordBulk(ctx, &BulkAttendanceRequest{
		CourseID: course.ID,
		Date:     "2026-03-02",
		Entries: []validator.AttendanceEntry{
			{StudentID: student.ID, Status: models.StatusPresent},
			{StudentID: student.ID, Status: models.StatusAbsent},
		},
	}, faculty.ID)

	var valErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &valErrs)
}

func TestAmendWritesAuditLog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-107")
	student := seedStudent(t, env, "sam")
	record := seedAttendance(t, env, student.ID, course.ID, day("2026-03-02"), models.StatusAbsent)

	reason := "medical certificate submitted"
	status := models.StatusPresent
	amended, err := env.manager.Attendance().Amend(ctx, record.ID, &AmendAttendanceRequest{
		Status: &status,
		Reason: &reason,
	}, faculty.ID, models.RoleFaculty)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, amended.Status)

	logs, err := env.manager.Attendance().History(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.StatusAbsent, logs[0].OldStatus)
	assert.Equal(t, models.StatusPresent, logs[0].NewStatus)
	assert.Equal(t, faculty.ID, logs[0].ChangedBy)
	require.NotNil(t, logs[0].Reason)
	assert.Equal(t, reason, *logs[0].Reason)
}

func TestAmendRejectsEmptyUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-108")
	student := seedStudent(t, env, "sam")
	record := seedAttendance(t, env, student.ID, course.ID, day("2026-03-02"), models.StatusAbsent)

	_, err := env.manager.Attendance().Amend(ctx, record.ID, &AmendAttendanceRequest{}, faculty.ID, models.RoleFaculty)

	var valErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &valErrs)
}

func TestAmendRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedFaculty(t, env, "owner")
	other := seedFaculty(t, env, "other")
	course := seedCourse(t, env, owner.ID, "REC-109")
	student := seedStudent(t, env, "sam")
	record := seedAttendance(t, env, student.ID, course.ID, day("2026-03-02"), models.StatusAbsent)

	status := models.StatusPresent
	_, err := env.manager.Attendance().Amend(ctx, record.ID, &AmendAttendanceRequest{Status: &status}, other.ID, models.RoleFaculty)

	var permErr *PermissionError
	assert.ErrorAs(t, err, &permErr)
}

func TestAmendTriggersAlertEvaluation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-110")
	student := seedStudent(t, env, "sam")

	// 100% across four sessions, then amend one to absent: 75% is
	// not below the 75 threshold, amend another: 50% fires the alert
	seedSessions(t, env, student.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusPresent, models.StatusPresent, models.StatusPresent)

	records, err := env.repo.Attendance().ForAggregation(ctx, nil, &student.ID, &course.ID, repositories.DateRange{})
	require.NoError(t, err)
	require.Len(t, records, 4)

	absent := models.StatusAbsent
	_, err = env.manager.Attendance().Amend(ctx, records[0].ID, &AmendAttendanceRequest{Status: &absent}, faculty.ID, models.RoleFaculty)
	require.NoError(t, err)
	assert.Empty(t, env.publisher.GetPublishedEvents())

	_, err = env.manager.Attendance().Amend(ctx, records[1].ID, &AmendAttendanceRequest{Status: &absent}, faculty.ID, models.RoleFaculty)
	require.NoError(t, err)
	assert.Len(t, env.publisher.GetPublishedEvents(), 1)
}

func TestListScopesStudentsToOwnRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "prof")
	course := seedCourse(t, env, faculty.ID, "REC-111")
	alice := seedStudent(t, env, "alice")
	bob := seedStudent(t, env, "bob")

	seedAttendance(t, env, alice.ID, course.ID, day("2026-03-02"), models.StatusPresent)
	seedAttendance(t, env, bob.ID, course.ID, day("2026-03-02"), models.StatusAbsent)

	// Bob asks for Alice's records; the filter is overridden
	resp, err := env.manager.Attendance().List(ctx, repositories.AttendanceFilters{StudentID: &alice.ID}, bob.ID, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, bob.ID, resp.Records[0].StudentID)
}
