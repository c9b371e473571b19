package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationLowAttendance NotificationType = "low_attendance"
	NotificationSystem        NotificationType = "system"
	NotificationInfo          NotificationType = "info"
)

// Notification is created by the alert evaluator or other system
// events. The only mutation in normal flow is the read flag; rows are
// never deleted.
type Notification struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	UserID   uint             `json:"user_id" gorm:"not null;index"`
	CourseID *uint            `json:"course_id,omitempty" gorm:"index"`
	Title    string           `json:"title" gorm:"not null;size:200"`
	Message  string           `json:"message" gorm:"type:text;not null"`
	Type     NotificationType `json:"type" gorm:"not null;size:50;index"`
	IsRead   bool             `json:"is_read" gorm:"not null;default:false;index"`

	// Structured context for the UI (computed percentage, threshold, ...)
	Payload datatypes.JSON `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Relations
	User   User    `json:"-" gorm:"foreignKey:UserID"`
	Course *Course `json:"-" gorm:"foreignKey:CourseID"`
}

func (Notification) TableName() string {
	return "notifications"
}
