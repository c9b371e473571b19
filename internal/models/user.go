package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleAdmin   UserRole = "admin"
	RoleFaculty UserRole = "faculty"
	RoleStudent UserRole = "student"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:80"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName     string   `json:"full_name" gorm:"not null;size:100"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	// Role-specific serial numbers assigned at creation
	StudentSerial *int `json:"student_serial,omitempty" gorm:"uniqueIndex"`
	FacultySerial *int `json:"faculty_serial,omitempty" gorm:"uniqueIndex"`

	// Status: users are deactivated, never hard-deleted, so attendance
	// history stays intact
	IsActive bool `json:"is_active" gorm:"not null;default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:FacultyID"`
}

func (User) TableName() string {
	return "users"
}
