// Package authz maps user roles to the operations they may perform.
// A flat lookup table replaces per-route permission decorators so
// services can check capabilities without knowing about HTTP.
package authz

import (
	"github.com/SAP-F-2025/attendance-service/internal/models"
)

type Operation string

const (
	OpManageUsers       Operation = "users:manage"
	OpManageCourses     Operation = "courses:manage"
	OpViewCourses       Operation = "courses:view"
	OpRecordAttendance  Operation = "attendance:record"
	OpAmendAttendance   Operation = "attendance:amend"
	OpViewAttendance    Operation = "attendance:view"
	OpViewOwnSummary    Operation = "reports:view_own"
	OpViewCourseReports Operation = "reports:view_course"
	OpExportReports     Operation = "reports:export"
	OpEvaluateAlerts    Operation = "alerts:evaluate"
	OpViewDashboard     Operation = "dashboard:view"
)

var capabilities = map[models.UserRole]map[Operation]bool{
	models.RoleAdmin: {
		OpManageUsers:       true,
		OpManageCourses:     true,
		OpViewCourses:       true,
		OpViewAttendance:    true,
		OpViewCourseReports: true,
		OpExportReports:     true,
		OpEvaluateAlerts:    true,
		OpViewDashboard:     true,
	},
	models.RoleFaculty: {
		OpViewCourses:       true,
		OpRecordAttendance:  true,
		OpAmendAttendance:   true,
		OpViewAttendance:    true,
		OpViewCourseReports: true,
		OpViewDashboard:     true,
	},
	models.RoleStudent: {
		OpViewCourses:    true,
		OpViewOwnSummary: true,
	},
}

// Can reports whether the role is allowed to perform the operation.
// Unknown roles and unknown operations are denied.
func Can(role models.UserRole, op Operation) bool {
	ops, ok := capabilities[role]
	if !ok {
		return false
	}
	return ops[op]
}
