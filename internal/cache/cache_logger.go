package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache invalidates all caches derived from a course
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint) {
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%d", courseID),
		fmt.Sprintf("details:%d", courseID))

	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("course:%d:*", courseID))
}

// InvalidateAttendanceCache invalidates aggregation caches after a write.
// Attendance writes shift every derived percentage for the tuple.
func InvalidateAttendanceCache(ctx context.Context, cm *CacheManager, studentID, courseID uint) {
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("course:%d:*", courseID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("student:%d:*", studentID))
}

// InvalidateUserCache invalidates cached user lookups
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint, email string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%d", userID),
		fmt.Sprintf("email:%s", email))
}
