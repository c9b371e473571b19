package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

func TestSummaryWeightsLateAsHalf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "turing")
	course := seedCourse(t, env, faculty.ID, "CS-101")
	student := seedStudent(t, env, "ada")

	// 3 present, 1 absent, 1 late at weight 0.5 => 3.5/5 = 70%
	seedSessions(t, env, student.ID, course.ID, day("2026-03-02"),
		models.StatusPresent,
		models.StatusPresent,
		models.StatusPresent,
		models.StatusAbsent,
		models.StatusLate,
	)

	summary, err := env.manager.Report().Summary(ctx, student.ID, &course.ID, repositories.DateRange{}, 0, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Late)
	require.NotNil(t, summary.Percentage)
	assert.InDelta(t, 70.0, *summary.Percentage, 0.001)
}

func TestSummaryWithNoSessionsHasNilPercentage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "hopper")
	course := seedCourse(t, env, faculty.ID, "CS-102")
	student := seedStudent(t, env, "grace")

	summary, err := env.manager.Report().Summary(ctx, student.ID, &course.ID, repositories.DateRange{}, 0, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Nil(t, summary.Percentage)
}

func TestSummaryPercentageBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "knuth")
	course := seedCourse(t, env, faculty.ID, "CS-103")

	allPresent := seedStudent(t, env, "diligent")
	seedSessions(t, env, allPresent.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusPresent, models.StatusPresent)

	allAbsent := seedStudent(t, env, "missing")
	seedSessions(t, env, allAbsent.ID, course.ID, day("2026-03-02"),
		models.StatusAbsent, models.StatusAbsent, models.StatusAbsent)

	top, err := env.manager.Report().Summary(ctx, allPresent.ID, &course.ID, repositories.DateRange{}, 0, models.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, top.Percentage)
	assert.Equal(t, 100.0, *top.Percentage)

	bottom, err := env.manager.Report().Summary(ctx, allAbsent.ID, &course.ID, repositories.DateRange{}, 0, models.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, bottom.Percentage)
	assert.Equal(t, 0.0, *bottom.Percentage)
}

func TestSummaryRespectsDateRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "dijkstra")
	course := seedCourse(t, env, faculty.ID, "CS-104")
	student := seedStudent(t, env, "edsger")

	seedAttendance(t, env, student.ID, course.ID, day("2026-02-02"), models.StatusAbsent)
	seedAttendance(t, env, student.ID, course.ID, day("2026-03-02"), models.StatusPresent)
	seedAttendance(t, env, student.ID, course.ID, day("2026-03-03"), models.StatusPresent)

	from := day("2026-03-01")
	summary, err := env.manager.Report().Summary(ctx, student.ID, &course.ID, repositories.DateRange{From: &from}, 0, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	require.NotNil(t, summary.Percentage)
	assert.Equal(t, 100.0, *summary.Percentage)
}

func TestStudentsCannotViewOtherStudentsSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "ritchie")
	course := seedCourse(t, env, faculty.ID, "CS-105")
	alice := seedStudent(t, env, "alice")
	bob := seedStudent(t, env, "bob")

	_, err := env.manager.Report().Summary(ctx, alice.ID, &course.ID, repositories.DateRange{}, bob.ID, models.RoleStudent)

	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, bob.ID, permErr.UserID)

	// Own summary works
	_, err = env.manager.Report().Summary(ctx, alice.ID, &course.ID, repositories.DateRange{}, alice.ID, models.RoleStudent)
	assert.NoError(t, err)
}

func TestFacultyReportScopedToOwnCourses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedFaculty(t, env, "owner")
	other := seedFaculty(t, env, "other")
	course := seedCourse(t, env, owner.ID, "CS-106")

	_, err := env.manager.Report().CourseSummary(ctx, course.ID, repositories.DateRange{}, other.ID, models.RoleFaculty)
	var permErr *PermissionError
	require.ErrorAs(t, err, &permErr)

	_, err = env.manager.Report().CourseSummary(ctx, course.ID, repositories.DateRange{}, owner.ID, models.RoleFaculty)
	assert.NoError(t, err)
}

func TestTrendKeepsEmptyBuckets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "lamport")
	course := seedCourse(t, env, faculty.ID, "CS-107")
	student := seedStudent(t, env, "leslie")

	// Week of 2026-03-09 only: 4 present, 1 absent => 80%. The week
	// of 2026-03-02 stays in range with no sessions.
	seedSessions(t, env, student.ID, course.ID, day("2026-03-09"),
		models.StatusPresent,
		models.StatusPresent,
		models.StatusPresent,
		models.StatusPresent,
		models.StatusAbsent,
	)

	from := day("2026-03-02")
	to := day("2026-03-13")
	buckets, err := env.manager.Report().Trend(ctx, course.ID, &student.ID, GranularityWeekly, repositories.DateRange{From: &from, To: &to}, 0, models.RoleAdmin)
	require.NoError(t, err)

	require.Len(t, buckets, 2)

	assert.Equal(t, "2026-W10", buckets[0].Label)
	assert.Equal(t, 0, buckets[0].Total)
	assert.Nil(t, buckets[0].Percentage)

	assert.Equal(t, "2026-W11", buckets[1].Label)
	assert.Equal(t, 5, buckets[1].Total)
	require.NotNil(t, buckets[1].Percentage)
	assert.InDelta(t, 80.0, *buckets[1].Percentage, 0.001)
}

func TestTrendDailyGranularity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "kernighan")
	course := seedCourse(t, env, faculty.ID, "CS-108")
	student := seedStudent(t, env, "brian")

	seedAttendance(t, env, student.ID, course.ID, day("2026-03-02"), models.StatusPresent)
	seedAttendance(t, env, student.ID, course.ID, day("2026-03-04"), models.StatusAbsent)

	buckets, err := env.manager.Report().Trend(ctx, course.ID, &student.ID, GranularityDaily, repositories.DateRange{}, 0, models.RoleAdmin)
	require.NoError(t, err)

	// Span derived from the data: 02, 03 (empty), 04
	require.Len(t, buckets, 3)
	assert.Equal(t, "2026-03-02", buckets[0].Label)
	assert.Nil(t, buckets[1].Percentage)
	require.NotNil(t, buckets[2].Percentage)
	assert.Equal(t, 0.0, *buckets[2].Percentage)
}

func TestLowAttendanceRankingWorstFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := seedFaculty(t, env, "thompson")
	course := seedCourse(t, env, faculty.ID, "CS-109")

	worst := seedStudent(t, env, "worst") // 25%
	seedSessions(t, env, worst.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusAbsent, models.StatusAbsent, models.StatusAbsent)

	low := seedStudent(t, env, "low") // 50%
	seedSessions(t, env, low.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusPresent, models.StatusAbsent, models.StatusAbsent)

	healthy := seedStudent(t, env, "healthy") // 100%
	seedSessions(t, env, healthy.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusPresent, models.StatusPresent, models.StatusPresent)

	entries, err := env.manager.Report().LowAttendance(ctx, &course.ID, 0, 0, models.RoleAdmin)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, worst.ID, entries[0].Student.ID)
	assert.InDelta(t, 25.0, entries[0].Percentage, 0.001)
	assert.Equal(t, low.ID, entries[1].Student.ID)
}

func TestExportSummaryRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.Report().ExportSummary(ctx, repositories.DateRange{}, models.RoleFaculty)
	assert.ErrorIs(t, err, ErrForbidden)

	faculty := seedFaculty(t, env, "bell")
	course := seedCourse(t, env, faculty.ID, "CS-110")
	student := seedStudent(t, env, "chris")
	seedSessions(t, env, student.ID, course.ID, day("2026-03-02"),
		models.StatusPresent, models.StatusLate)

	f, err := env.manager.Report().ExportSummary(ctx, repositories.DateRange{}, models.RoleAdmin)
	require.NoError(t, err)

	code, err := f.GetCellValue("Attendance Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "CS-110", code)
}
