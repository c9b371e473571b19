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

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return repositories.TranslateError(db.WithContext(ctx).Create(user).Error)
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := u.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		if err := db.WithContext(ctx).First(&dbUser, id).Error; err != nil {
			return nil, repositories.TranslateError(err)
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, repositories.TranslateError(err)
	}

	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return repositories.TranslateError(err)
	}
	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID, user.Email)
	return nil
}

func (u *UserPostgreSQL) Deactivate(ctx context.Context, tx *gorm.DB, id uint) error {
	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.SafeDelete(ctx, u.cacheManager.User, fmt.Sprintf("id:%d", id))
	return nil
}

func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	db := u.getDB(tx)
	var users []*models.User
	var total int64

	query := db.WithContext(ctx).Model(&models.User{})
	query = u.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, "created_at", map[string]bool{
		"created_at": true,
		"username":   true,
		"full_name":  true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (u *UserPostgreSQL) ActiveStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	db := u.getDB(tx)
	var students []*models.User
	err := db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleStudent, true).
		Order("id asc").
		Find(&students).Error
	return students, err
}

func (u *UserPostgreSQL) ExistsByUsernameOrEmail(ctx context.Context, tx *gorm.DB, username, email string) (bool, error) {
	db := u.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (u *UserPostgreSQL) HasRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) (bool, error) {
	db := u.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ? AND is_active = ?", id, role, true).
		Count(&count).Error
	return count > 0, err
}

func (u *UserPostgreSQL) NextSerial(ctx context.Context, tx *gorm.DB, role models.UserRole) (int, error) {
	db := u.getDB(tx)

	column := "student_serial"
	if role == models.RoleFaculty {
		column = "faculty_serial"
	}

	var max *int
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("MAX(" + column + ")").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (u *UserPostgreSQL) applyFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("username LIKE ? OR full_name LIKE ? OR email LIKE ?", like, like, like)
	}
	return query
}
