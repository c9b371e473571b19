package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Code        string  `json:"code" gorm:"uniqueIndex;not null;size:20" validate:"required,course_code"`
	FacultyID   uint    `json:"faculty_id" gorm:"not null;index"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Credits     int     `json:"credits" gorm:"not null;default:3" validate:"min=1,max=10"`
	IsActive    bool    `json:"is_active" gorm:"not null;default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Faculty User `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`
}

func (Course) TableName() string {
	return "courses"
}
