package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/cache"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return repositories.TranslateError(err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := db.WithContext(ctx).First(&dbCourse, id).Error; err != nil {
			return nil, repositories.TranslateError(err)
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, repositories.TranslateError(err)
	}

	return &course, nil
}

func (c *CoursePostgreSQL) GetByIDWithFaculty(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).Preload("Faculty").First(&course, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).Where("code = ?", code).First(&course).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return repositories.TranslateError(err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	return nil
}

func (c *CoursePostgreSQL) Deactivate(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id)
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := c.getDB(tx)
	var courses []*models.Course
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Course{})
	query = c.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applySort(query, filters.SortBy, filters.SortOrder, "name", map[string]bool{
		"created_at": true,
		"name":       true,
		"code":       true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Faculty").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) GetByFaculty(ctx context.Context, tx *gorm.DB, facultyID uint, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filters.FacultyID = &facultyID
	return c.List(ctx, tx, filters)
}

func (c *CoursePostgreSQL) ActiveCourses(ctx context.Context, tx *gorm.DB) ([]*models.Course, error) {
	db := c.getDB(tx)
	var courses []*models.Course
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&courses).Error
	return courses, err
}

func (c *CoursePostgreSQL) ExistsByNameOrCode(ctx context.Context, tx *gorm.DB, name, code string) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("name = ? OR code = ?", name, code).
		Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) IsOwnedBy(ctx context.Context, tx *gorm.DB, courseID, facultyID uint) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ? AND faculty_id = ? AND is_active = ?", courseID, facultyID, true).
		Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) applyFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.FacultyID != nil {
		query = query.Where("faculty_id = ?", *filters.FacultyID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	return query
}
