package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name string
		role models.UserRole
		op   Operation
		want bool
	}{
		{name: "admin manages users", role: models.RoleAdmin, op: OpManageUsers, want: true},
		{name: "admin exports reports", role: models.RoleAdmin, op: OpExportReports, want: true},
		{name: "admin cannot record attendance", role: models.RoleAdmin, op: OpRecordAttendance, want: false},
		{name: "faculty records attendance", role: models.RoleFaculty, op: OpRecordAttendance, want: true},
		{name: "faculty amends attendance", role: models.RoleFaculty, op: OpAmendAttendance, want: true},
		{name: "faculty cannot manage users", role: models.RoleFaculty, op: OpManageUsers, want: false},
		{name: "faculty cannot evaluate alerts", role: models.RoleFaculty, op: OpEvaluateAlerts, want: false},
		{name: "student views own summary", role: models.RoleStudent, op: OpViewOwnSummary, want: true},
		{name: "student cannot view course reports", role: models.RoleStudent, op: OpViewCourseReports, want: false},
		{name: "unknown role denied", role: models.UserRole("proctor"), op: OpViewCourses, want: false},
		{name: "unknown operation denied", role: models.RoleAdmin, op: Operation("bogus"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.op))
		})
	}
}
