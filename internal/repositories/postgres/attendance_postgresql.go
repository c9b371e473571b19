package postgres

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewAttendancePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *AttendancePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// Create relies on the composite unique index; the database, not the
// application, arbitrates concurrent writes for the same tuple.
func (a *AttendancePostgreSQL) Create(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return repositories.TranslateError(err)
	}
	cache.InvalidateAttendanceCache(ctx, a.cacheManager, record.StudentID, record.CourseID)
	return nil
}

func (a *AttendancePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AttendanceRecord, error) {
	db := a.getDB(tx)
	var record models.AttendanceRecord
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &record, nil
}

func (a *AttendancePostgreSQL) GetByTuple(ctx context.Context, tx *gorm.DB, studentID, courseID uint, date time.Time) (*models.AttendanceRecord, error) {
	db := a.getDB(tx)
	var record models.AttendanceRecord
	err := db.WithContext(ctx).
		Where("student_id = ? AND course_id = ? AND date = ?", studentID, courseID, date).
		First(&record).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &record, nil
}

func (a *AttendancePostgreSQL) Update(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Save(record).Error; err != nil {
		return repositories.TranslateError(err)
	}
	cache.InvalidateAttendanceCache(ctx, a.cacheManager, record.StudentID, record.CourseID)
	return nil
}

func (a *AttendancePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, int64, error) {
	db := a.getDB(tx)
	var records []*models.AttendanceRecord
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.AttendanceRecord{})
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applySort(query, filters.SortBy, filters.SortOrder, "date", map[string]bool{
		"date":       true,
		"created_at": true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Student").Preload("Course").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (a *AttendancePostgreSQL) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.AttendanceRecord, error) {
	db := a.getDB(tx)
	if limit <= 0 {
		limit = 10
	}
	var records []*models.AttendanceRecord
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Preload("Student").
		Preload("Course").
		Find(&records).Error
	return records, err
}

func (a *AttendancePostgreSQL) ForAggregation(ctx context.Context, tx *gorm.DB, studentID, courseID *uint, rng repositories.DateRange) ([]*models.AttendanceRecord, error) {
	db := a.getDB(tx)
	query := db.WithContext(ctx).Model(&models.AttendanceRecord{})

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	query = applyDateRange(query, "date", rng)

	var records []*models.AttendanceRecord
	if err := query.Order("date asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (a *AttendancePostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB, studentID, courseID *uint, rng repositories.DateRange) (*repositories.StatusCounts, error) {
	db := a.getDB(tx)
	query := db.WithContext(ctx).Model(&models.AttendanceRecord{})

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	query = applyDateRange(query, "date", rng)

	var rows []struct {
		Status models.AttendanceStatus
		Count  int64
	}
	if err := query.Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := &repositories.StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.StatusPresent:
			counts.Present = row.Count
		case models.StatusAbsent:
			counts.Absent = row.Count
		case models.StatusLate:
			counts.Late = row.Count
		}
	}
	return counts, nil
}

func (a *AttendancePostgreSQL) CreateLog(ctx context.Context, tx *gorm.DB, log *models.AttendanceLog) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Create(log).Error
}

func (a *AttendancePostgreSQL) LogsForRecord(ctx context.Context, tx *gorm.DB, attendanceID uint) ([]*models.AttendanceLog, error) {
	db := a.getDB(tx)
	var logs []*models.AttendanceLog
	err := db.WithContext(ctx).
		Where("attendance_id = ?", attendanceID).
		Order("created_at desc").
		Find(&logs).Error
	return logs, err
}

func (a *AttendancePostgreSQL) applyFilters(query *gorm.DB, filters repositories.AttendanceFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return applyDateRange(query, "date", filters.Range)
}
