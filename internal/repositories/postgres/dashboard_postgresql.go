package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

func (d *DashboardPostgreSQL) GetSystemStats(ctx context.Context, tx *gorm.DB) (*repositories.SystemStats, error) {
	db := d.getDB(tx)
	stats := &repositories.SystemStats{}

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleStudent, true).
		Count(&stats.TotalStudents).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleFaculty, true).
		Count(&stats.TotalFaculty).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("is_active = ?", true).
		Count(&stats.TotalCourses).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Count(&stats.TotalRecords).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (d *DashboardPostgreSQL) GetActiveUserCount(ctx context.Context, tx *gorm.DB, role string) (int64, error) {
	db := d.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Count(&count).Error
	return count, err
}

func (d *DashboardPostgreSQL) GetActiveCourseCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := d.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
