package models

import (
	"time"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// AttendanceRecord is one session entry for a student in a course.
// The composite unique index enforces at most one record per
// (student, course, date); concurrent duplicate inserts lose with a
// duplicate-key error instead of overwriting.
type AttendanceRecord struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_tuple,priority:1"`
	CourseID  uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_attendance_tuple,priority:2"`
	Date      time.Time        `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_tuple,priority:3;index"`
	Status    AttendanceStatus `json:"status" gorm:"not null;size:20" validate:"required,attendance_status"`
	Remarks   *string          `json:"remarks" gorm:"type:text" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// AttendanceLog is the audit trail for amended records. Rows are
// append-only.
type AttendanceLog struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AttendanceID uint             `json:"attendance_id" gorm:"not null;index"`
	ChangedBy    uint             `json:"changed_by" gorm:"not null;index"`
	OldStatus    AttendanceStatus `json:"old_status" gorm:"size:20"`
	NewStatus    AttendanceStatus `json:"new_status" gorm:"not null;size:20"`
	Reason       *string          `json:"reason" gorm:"type:text"`
	CreatedAt    time.Time        `json:"created_at"`

	// Relations
	Attendance AttendanceRecord `json:"-" gorm:"foreignKey:AttendanceID"`
	User       User             `json:"-" gorm:"foreignKey:ChangedBy"`
}

func (AttendanceLog) TableName() string {
	return "attendance_logs"
}
